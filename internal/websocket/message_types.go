package websocket

// Типы событий игры
const (
	// GAME_STATE — полный снимок состояния (при подключении и по запросу)
	GAME_STATE = "GAME_STATE"

	// BOARD_LOADED — загружена доска вопросов
	BOARD_LOADED = "BOARD_LOADED"

	// QUESTION_SELECTED — ведущий открыл клетку
	QUESTION_SELECTED = "QUESTION_SELECTED"

	// WAGER_ACCEPTED — принята ставка Daily Double
	WAGER_ACCEPTED = "WAGER_ACCEPTED"

	// OUTCOME_RECORDED — применён результат ответа
	OUTCOME_RECORDED = "OUTCOME_RECORDED"

	// ROUND_ADVANCED — переход к следующему раунду
	ROUND_ADVANCED = "ROUND_ADVANCED"

	// FINAL_WAGER_ACCEPTED — команда сделала финальную ставку
	FINAL_WAGER_ACCEPTED = "FINAL_WAGER_ACCEPTED"

	// FINAL_REVEALED — открыт финальный вопрос
	FINAL_REVEALED = "FINAL_REVEALED"

	// FINAL_RESOLVED — применены результаты финала
	FINAL_RESOLVED = "FINAL_RESOLVED"

	// GAME_OVER — игра завершена, в данных победители
	GAME_OVER = "GAME_OVER"

	// GAME_RESET — игра начата заново
	GAME_RESET = "GAME_RESET"

	// TEAMS_UPDATED — изменён состав команд
	TEAMS_UPDATED = "TEAMS_UPDATED"

	// TIMER_TICK / TIMER_EXPIRED: рекомендательный таймер ответа
	TIMER_TICK    = "TIMER_TICK"
	TIMER_EXPIRED = "TIMER_EXPIRED"

	// GAME_CLOSED — сессия закрыта, соединения будут разорваны
	GAME_CLOSED = "GAME_CLOSED"
)

// Служебные сообщения клиент <-> сервер
const (
	CLIENT_PING          = "client:ping"
	CLIENT_REQUEST_STATE = "client:request_state"
	SERVER_PONG          = "server:pong"
	SERVER_ERROR         = "server:error"
)

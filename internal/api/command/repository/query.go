package commandRepository

const (
	querySchema = `
		CREATE TABLE IF NOT EXISTS command_logs (
			id         VARCHAR(26) PRIMARY KEY,
			request_id VARCHAR(64) NOT NULL,
			input      TEXT NOT NULL,
			operation  VARCHAR(255) NOT NULL,
			arguments  TEXT NOT NULL,
			score      DOUBLE PRECISION NOT NULL,
			reply      TEXT NOT NULL,
			source     SMALLINT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`

	querySchemaIndex = `
		CREATE INDEX IF NOT EXISTS idx_command_logs_operation_created
		ON command_logs (operation, created_at)
	`

	queryCreateCommandLog = `
		INSERT INTO command_logs (
			id, request_id, input, operation, arguments,
			score, reply, source, created_at
		) VALUES (
			:id, :request_id, :input, :operation, :arguments,
			:score, :reply, :source, :created_at
		)
	`

	queryGetCommandLogByID = `
		SELECT
			id, request_id, input, operation, arguments,
			score, reply, source, created_at
		FROM command_logs
		WHERE id = :id
	`

	queryListCommandLogs = `
		SELECT
			id, request_id, input, operation, arguments,
			score, reply, source, created_at
		FROM command_logs
		WHERE (:operation = '' OR operation = :operation)
		ORDER BY created_at DESC, id DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountCommandLogs = `
		SELECT COUNT(*)
		FROM command_logs
		WHERE (:operation = '' OR operation = :operation)
	`
)

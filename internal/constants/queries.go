package constants

const (
	InsertLoginToken = `
	INSERT INTO login_tokens (token, username, email, expires_at)
	VALUES ($1, $2, $3, $4)
	`

	// ConsumeLoginToken deletes the token only while it is unexpired and
	// returns the deleted row, so a token can be redeemed at most once.
	ConsumeLoginToken = `
	DELETE FROM login_tokens
	WHERE token = $1 AND expires_at > $2
	RETURNING token, username, email, expires_at
	`

	DeleteExpiredLoginTokens = `
	DELETE FROM login_tokens WHERE expires_at <= $1
	`
)

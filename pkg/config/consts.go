package config

// EnvPrefix is intentionally empty: every variable carries the full ROSSI_
// name in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "ROSSI_APP_ENV"
	EnvPort   = "ROSSI_APP_PORT"
	EnvDBDSN  = "ROSSI_DB_DSN"
	EnvDBHost = "ROSSI_DB_HOST"
	EnvDBUser = "ROSSI_DB_USER"
	EnvDBName = "ROSSI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

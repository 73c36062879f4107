package config

// EnvPrefix is the envconfig prefix shared by every KITFORGE_* variable.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "KITFORGE_DB_DSN"
	EnvDBHost = "KITFORGE_DB_HOST"
	EnvDBUser = "KITFORGE_DB_USER"
	EnvDBName = "KITFORGE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

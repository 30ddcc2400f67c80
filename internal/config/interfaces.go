package config

type Server interface {
	Port() int
	Address() string
	AllowedOrigins() string
	BodyLimitBytes() int64
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Database interface {
	DSN() string
}

type Units interface {
	File() string
}

package config

import "time"

// Config is the root configuration of a dictionary build.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Sources  SourcesConfig  `yaml:"sources"`
	Render   RenderConfig   `yaml:"render"`
	Build    BuildConfig    `yaml:"build"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// SourcesConfig holds input file paths. Only JMdict is mandatory.
type SourcesConfig struct {
	JMdict      string   `yaml:"jmdict"       env:"JADICT_JMDICT"`
	PitchAccent string   `yaml:"pitch_accent" env:"JADICT_PITCH_ACCENT"`
	KoboJaDict  string   `yaml:"kobo_ja_dict" env:"JADICT_KOBO_JA_DICT"`
	Yomichan    []string `yaml:"yomichan"     env:"JADICT_YOMICHAN" env-separator:","`
}

// RenderConfig controls entry text.
type RenderConfig struct {
	Katakana  bool `yaml:"katakana"   env:"JADICT_KATAKANA"`
	MoveTerms bool `yaml:"move_terms" env:"JADICT_MOVE_TERMS"`
}

// BuildConfig controls assembly.
type BuildConfig struct {
	Workers  int    `yaml:"workers"   env:"JADICT_WORKERS"   env-default:"0"`
	SortMode string `yaml:"sort_mode" env:"JADICT_SORT_MODE" env-default:"priority"`
}

// OutputConfig selects the output file and its format.
type OutputConfig struct {
	Path   string `yaml:"path"   env:"JADICT_OUTPUT"`
	Format string `yaml:"format" env:"JADICT_FORMAT" env-default:"kobo"`
	// Name labels exported entries in the database.
	Name string `yaml:"name" env:"JADICT_NAME" env-default:"jmdict"`
}

// DatabaseConfig holds PostgreSQL export settings. The export is off
// unless Export is set.
type DatabaseConfig struct {
	Export          bool          `yaml:"export"             env:"DATABASE_EXPORT"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	BatchSize       int           `yaml:"batch_size"         env:"DATABASE_BATCH_SIZE"         env-default:"500"`
}

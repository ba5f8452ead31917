package common

const (
	// backtest:<dataset fingerprint>:<opportunity>:<strategy key>
	KEY_BACKTEST_RESULT = "backtest:%s:%s:%s"
)

const (
	OUTPUT_JSON = "json"
	OUTPUT_YAML = "yaml"
)

func GetOutputFormats() []string {
	return []string{
		OUTPUT_JSON,
		OUTPUT_YAML,
	}
}

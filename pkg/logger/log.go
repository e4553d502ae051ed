package logger

import "go.uber.org/zap"

// NewLogger создает логгер, пишущий одновременно в консоль и в файл,
// чтобы оператор видел ход отправки, а история оставалась в логе.
func NewLogger(logPath string) *zap.Logger {
	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}

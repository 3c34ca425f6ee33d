package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// FieldErr ...
func FieldErr(err error) Field {
	return zap.Error(err)
}

func FieldMethod(value string) Field {
	return String("method", value)
}

func FieldContract(value string) Field {
	return String("contract", value)
}

func FieldProvider(value string) Field {
	return String("provider", value)
}

func FieldScore(value float64) Field {
	return Float64("risk_score", value)
}

func FieldTraceId(tid string) Field {
	return String("trace_id", tid)
}

// FieldCost 耗时，单位毫秒
func FieldCost(value time.Duration) Field {
	return String("cost", fmt.Sprintf("%.3f", float64(value.Round(time.Microsecond))/float64(time.Millisecond)))
}

// FieldStack ...
func FieldStack(value []byte) Field {
	return ByteString("stack", value)
}

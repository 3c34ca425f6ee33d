package utils

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// GenerateReportID 生成按时间有序的报告ID
func GenerateReportID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

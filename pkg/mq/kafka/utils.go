package kafka

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

const (
	_  = iota
	KB = 1 << (10 * iota)
	MB = 1 << (10 * iota)
)

// SecurityConfig 生产者与消费者共用的认证配置
type SecurityConfig struct {
	SecurityProtocol string `json:"security_protocol" yaml:"security_protocol"`
	SaslUsername     string `json:"sasl_username" yaml:"sasl_username"`
	SaslPassword     string `json:"sasl_password" yaml:"sasl_password"`
	SaslMechanism    string `json:"sasl_mechanism" yaml:"sasl_mechanism"`

	SslCaLocation          string `json:"ssl_ca_location" yaml:"ssl_ca_location"`
	SslCertificateLocation string `json:"ssl_certificate_location" yaml:"ssl_certificate_location"`
	SslKeyLocation         string `json:"ssl_key_location" yaml:"ssl_key_location"`
}

func (s SecurityConfig) apply(conf *kafka.ConfigMap) error {
	switch strings.ToUpper(s.SecurityProtocol) {
	case "PLAINTEXT", "":
		_ = conf.SetKey("security.protocol", "plaintext")
	case "SASL_SSL":
		_ = conf.SetKey("security.protocol", "sasl_ssl")
		_ = conf.SetKey("sasl.username", s.SaslUsername)
		_ = conf.SetKey("sasl.password", s.SaslPassword)
		if s.SaslMechanism != "" {
			_ = conf.SetKey("sasl.mechanism", s.SaslMechanism)
		}
		s.applySsl(conf)
		_ = conf.SetKey("ssl.endpoint.identification.algorithm", "None")
	case "SSL":
		_ = conf.SetKey("security.protocol", "ssl")
		s.applySsl(conf)
	case "SASL_PLAINTEXT":
		_ = conf.SetKey("security.protocol", "sasl_plaintext")
		_ = conf.SetKey("sasl.username", s.SaslUsername)
		_ = conf.SetKey("sasl.password", s.SaslPassword)
		_ = conf.SetKey("sasl.mechanism", s.SaslMechanism)
	default:
		return kafka.NewError(kafka.ErrUnknownProtocol, "unknown protocol: "+s.SecurityProtocol, true)
	}
	return nil
}

func (s SecurityConfig) applySsl(conf *kafka.ConfigMap) {
	if s.SslCaLocation != "" {
		_ = conf.SetKey("ssl.ca.location", s.SslCaLocation)
	}
	if s.SslCertificateLocation != "" {
		_ = conf.SetKey("ssl.certificate.location", s.SslCertificateLocation)
	}
	if s.SslKeyLocation != "" {
		_ = conf.SetKey("ssl.key.location", s.SslKeyLocation)
	}
	_ = conf.SetKey("enable.ssl.certificate.verification", "false")
}

// getClientID hostname-pid-timestamp
func getClientID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	hostname = strings.ReplaceAll(hostname, ".", "_")

	return fmt.Sprintf("%s-%d-%d", hostname, os.Getpid(), time.Now().Unix())
}

package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ServiceMetrics tracks per-service operation counters.
type ServiceMetrics struct {
	mu                  sync.Mutex
	ServiceName         string        `json:"service_name"`
	TotalRequests       int64         `json:"total_requests"`
	SuccessfulRequests  int64         `json:"successful_requests"`
	FailedRequests      int64         `json:"failed_requests"`
	TotalProcessingTime time.Duration `json:"total_processing_time"`
	LastRequestTime     time.Time     `json:"last_request_time"`
}

func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{ServiceName: serviceName}
}

// RecordRequest records one operation outcome.
func (m *ServiceMetrics) RecordRequest(success bool, processingTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	if success {
		m.SuccessfulRequests++
	} else {
		m.FailedRequests++
	}
	m.TotalProcessingTime += processingTime
	m.LastRequestTime = time.Now()
}

// GetSuccessRate returns the fraction of successful operations, 0 when idle.
func (m *ServiceMetrics) GetSuccessRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.TotalRequests == 0 {
		return 0
	}
	return float64(m.SuccessfulRequests) / float64(m.TotalRequests)
}

// LogSummary emits the current counters as a structured log event.
func (m *ServiceMetrics) LogSummary() {
	m.mu.Lock()
	defer m.mu.Unlock()

	avg := time.Duration(0)
	if m.TotalRequests > 0 {
		avg = m.TotalProcessingTime / time.Duration(m.TotalRequests)
	}

	logrus.WithFields(logrus.Fields{
		"service_name":        m.ServiceName,
		"total_requests":      m.TotalRequests,
		"successful_requests": m.SuccessfulRequests,
		"failed_requests":     m.FailedRequests,
		"avg_processing_time": avg,
	}).Info("Service metrics summary")
}

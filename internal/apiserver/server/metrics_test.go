package server

import "testing"

// TestNewMetrics_Singleton 多次调用返回同一实例，避免 promauto 重复注册 panic
func TestNewMetrics_Singleton(t *testing.T) {
	first := NewMetrics()
	if first == nil {
		t.Fatal("NewMetrics returned nil")
	}
	if second := NewMetrics(); second != first {
		t.Error("NewMetrics should return the same instance on every call")
	}
}

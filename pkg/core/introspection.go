package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Loads     int    `json:"loads"`
	Writes    int    `json:"writes"`
	LastError string `json:"last_error,omitempty"`
	Locking   bool   `json:"locking"`
	StoreType string `json:"store_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "unknown"
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	st := ServiceState{
		Loads:     s.stats.loads,
		Writes:    s.stats.writes,
		Locking:   s.locker != nil,
		StoreType: storeType,
	}
	if s.stats.last != nil {
		st.LastError = s.stats.last.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)

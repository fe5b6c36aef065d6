package numeric

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/bfhl-api/logging"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

var log = logging.GetLogger()

// NumericModule exposes the kernels via RequestReplyService so other mono modules and
// NATS clients can use them without going through HTTP.
type NumericModule struct{}

// Compile-time interface checks.
var (
	_ mono.Module                = (*NumericModule)(nil)
	_ mono.ServiceProviderModule = (*NumericModule)(nil)
)

// NewModule creates a new NumericModule.
func NewModule() *NumericModule {
	return &NumericModule{}
}

// Name returns the module name.
func (m *NumericModule) Name() string {
	return "numeric"
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.<module>." so "compute"
// becomes "services.numeric.compute".
func (m *NumericModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "compute", json.Unmarshal, json.Marshal, m.compute,
	); err != nil {
		return fmt.Errorf("failed to register compute service: %w", err)
	}

	log.Infof("[numeric] Registered services: services.numeric.compute")
	return nil
}

// Start initializes the numeric module.
func (m *NumericModule) Start(_ context.Context) error {
	log.Infoln("[numeric] Module started")
	return nil
}

// Stop stops the numeric module.
func (m *NumericModule) Stop(_ context.Context) error {
	log.Infoln("[numeric] Module stopped")
	return nil
}

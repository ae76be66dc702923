package scm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-hclog"

	"github.com/tphakala/go-scm/internal/schema"
)

// QuarantinedDeviceEndpoint is the REST path for quarantined devices.
const QuarantinedDeviceEndpoint = "/config/objects/v1/quarantined-devices"

// QuarantinedDevice is a host blocked from GlobalProtect access. Entries
// are not scoped to a container and are keyed by host ID.
type QuarantinedDevice struct {
	HostID       string `json:"host_id"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// QuarantinedDeviceRequest quarantines a device.
type QuarantinedDeviceRequest struct {
	HostID       string `json:"host_id" validate:"required"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// QuarantinedDeviceFilter narrows List on the server side.
type QuarantinedDeviceFilter struct {
	HostID       string
	SerialNumber string
}

func (f *QuarantinedDeviceFilter) params() url.Values {
	params := url.Values{}
	if f == nil {
		return params
	}
	if f.HostID != "" {
		params.Set("host_id", f.HostID)
	}
	if f.SerialNumber != "" {
		params.Set("serial_number", f.SerialNumber)
	}
	return params
}

// QuarantinedDeviceService manages quarantined devices.
type QuarantinedDeviceService interface {
	// Create quarantines a device.
	Create(ctx context.Context, req *QuarantinedDeviceRequest) (*QuarantinedDevice, error)

	// List returns quarantined devices, optionally filtered.
	List(ctx context.Context, filter *QuarantinedDeviceFilter) ([]*QuarantinedDevice, error)

	// Delete releases the device with the given host ID.
	Delete(ctx context.Context, hostID string) error
}

type quarantinedDeviceService struct {
	transport Transport
	logger    hclog.Logger
	validator *schema.Validator
}

// NewQuarantinedDeviceService creates a service for quarantined devices.
// WithMaxLimit has no effect since the endpoint does not paginate.
func NewQuarantinedDeviceService(t Transport, opts ...ServiceOption) (QuarantinedDeviceService, error) {
	if t == nil {
		return nil, invalidObject(http.StatusBadRequest, "transport must be provided", map[string]any{"error": "nil transport"})
	}
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &quarantinedDeviceService{
		transport: t,
		logger:    logger,
		validator: sharedValidator(),
	}, nil
}

func (s *quarantinedDeviceService) Create(ctx context.Context, req *QuarantinedDeviceRequest) (*QuarantinedDevice, error) {
	if req == nil {
		return nil, invalidObject(http.StatusBadRequest, "quarantined device create request cannot be nil",
			map[string]any{"errorType": errorTypeInvalidObject})
	}
	if req.HostID == "" {
		return nil, missingQueryParameter("host_id")
	}
	if err := validateRequest(s.validator, "quarantined device", req); err != nil {
		return nil, err
	}

	resp, err := s.transport.Post(ctx, QuarantinedDeviceEndpoint, nil, req)
	if err != nil {
		return nil, ClassifyError(err)
	}
	if _, ok := resp.(map[string]any); !ok {
		return nil, errNotMapping()
	}

	var dev QuarantinedDevice
	if err := schema.Decode(resp, &dev); err != nil {
		return nil, invalidObject(http.StatusInternalServerError, err.Error(),
			map[string]any{"errorType": errorTypeInvalidObject})
	}
	return &dev, nil
}

// List accepts either a bare JSON array or a {"data": [...]} envelope.
func (s *quarantinedDeviceService) List(ctx context.Context, filter *QuarantinedDeviceFilter) ([]*QuarantinedDevice, error) {
	resp, err := s.transport.Get(ctx, QuarantinedDeviceEndpoint, filter.params())
	if err != nil {
		return nil, ClassifyError(err)
	}

	items, ok := resp.([]any)
	if !ok {
		body, isMap := resp.(map[string]any)
		if !isMap {
			return nil, invalidObject(http.StatusInternalServerError,
				"Invalid response format: expected list",
				map[string]any{"error": "Response is not a list"})
		}
		if items, ok = body["data"].([]any); !ok {
			return nil, errDataNotList()
		}
	}

	devices := make([]*QuarantinedDevice, 0, len(items))
	for _, item := range items {
		var dev QuarantinedDevice
		if _, isMap := item.(map[string]any); !isMap {
			s.logger.Warn("skipping quarantined device entry that is not an object")
			continue
		}
		if err := schema.Decode(item, &dev); err != nil {
			s.logger.Warn("skipping undecodable quarantined device", "error", err)
			continue
		}
		devices = append(devices, &dev)
	}
	s.logger.Debug("listed quarantined devices", "count", len(devices))
	return devices, nil
}

func (s *quarantinedDeviceService) Delete(ctx context.Context, hostID string) error {
	if hostID == "" {
		return missingQueryParameter("host_id")
	}
	params := url.Values{"host_id": []string{hostID}}
	if _, err := s.transport.Delete(ctx, QuarantinedDeviceEndpoint, params); err != nil {
		return ClassifyError(err)
	}
	return nil
}

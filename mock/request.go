// Package mock provides func-field mock implementations of the domain
// service interfaces for tests.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	satbrowse "github.com/psagers/sat-browse"
)

// Compile-time interface check
var _ satbrowse.RequestService = (*RequestService)(nil)

// RequestService is a mock implementation of satbrowse.RequestService. By
// default it keeps records in memory; individual methods can be overridden
// through the Fn fields.
type RequestService struct {
	CreateRequestsFn      func(ctx context.Context, requests []*satbrowse.Request) error
	FindRequestByIDFn     func(ctx context.Context, id uuid.UUID) (*satbrowse.Request, error)
	FinalizeRequestFn     func(ctx context.Context, id uuid.UUID, outcome satbrowse.RequestOutcome) (bool, error)
	FindRequestsByEmailFn func(ctx context.Context, email string, limit int) ([]*satbrowse.Request, error)

	mu       sync.Mutex
	requests map[uuid.UUID]*satbrowse.Request
	order    []uuid.UUID
}

// NewRequestService creates a mock with initialized storage.
func NewRequestService() *RequestService {
	return &RequestService{
		requests: make(map[uuid.UUID]*satbrowse.Request),
	}
}

// Seed stores a record directly, bypassing CreateRequests.
func (s *RequestService) Seed(req *satbrowse.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	s.requests[req.ID] = req
	s.order = append(s.order, req.ID)
}

func (s *RequestService) CreateRequests(ctx context.Context, requests []*satbrowse.Request) error {
	if s.CreateRequestsFn != nil {
		return s.CreateRequestsFn(ctx, requests)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, req := range requests {
		if req.ID == uuid.Nil {
			req.ID = uuid.New()
		}
		if req.Received.IsZero() {
			req.Received = time.Now()
		}
		s.requests[req.ID] = req
		s.order = append(s.order, req.ID)
	}
	return nil
}

func (s *RequestService) FindRequestByID(ctx context.Context, id uuid.UUID) (*satbrowse.Request, error) {
	if s.FindRequestByIDFn != nil {
		return s.FindRequestByIDFn(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, satbrowse.NotFound("Request not found")
	}
	copied := *req
	return &copied, nil
}

func (s *RequestService) FinalizeRequest(ctx context.Context, id uuid.UUID, outcome satbrowse.RequestOutcome) (bool, error) {
	if s.FinalizeRequestFn != nil {
		return s.FinalizeRequestFn(ctx, id, outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok || req.Completed != nil {
		return false, nil
	}

	now := time.Now()
	req.Completed = &now
	req.Success = outcome.Success
	req.Title = outcome.Title
	req.Error = outcome.Error
	return true, nil
}

func (s *RequestService) FindRequestsByEmail(ctx context.Context, email string, limit int) ([]*satbrowse.Request, error) {
	if s.FindRequestsByEmailFn != nil {
		return s.FindRequestsByEmailFn(ctx, email, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*satbrowse.Request
	for i := len(s.order) - 1; i >= 0; i-- {
		req := s.requests[s.order[i]]
		if req.Email != email {
			continue
		}
		copied := *req
		result = append(result, &copied)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Requests returns all stored records in creation order.
func (s *RequestService) Requests() []*satbrowse.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*satbrowse.Request, 0, len(s.order))
	for _, id := range s.order {
		copied := *s.requests[id]
		result = append(result, &copied)
	}
	return result
}

package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	satbrowse "github.com/psagers/sat-browse"
)

// Compile-time interface check
var _ satbrowse.SenderService = (*SenderService)(nil)

// SenderService is a mock implementation of satbrowse.SenderService backed
// by an in-memory set of addresses.
type SenderService struct {
	AuthorizeFn func(ctx context.Context, address string) (string, error)

	mu        sync.Mutex
	addresses map[string]time.Time
}

// NewSenderService creates a mock registry containing the given addresses.
func NewSenderService(addresses ...string) *SenderService {
	s := &SenderService{addresses: make(map[string]time.Time)}
	for _, addr := range addresses {
		s.addresses[strings.ToLower(addr)] = time.Now()
	}
	return s
}

func (s *SenderService) Authorize(ctx context.Context, address string) (string, error) {
	if s.AuthorizeFn != nil {
		return s.AuthorizeFn(ctx, address)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	addr := strings.ToLower(strings.TrimSpace(address))
	if _, ok := s.addresses[addr]; ok {
		return addr, nil
	}
	return "", nil
}

func (s *SenderService) AddSender(ctx context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := strings.ToLower(strings.TrimSpace(address))
	if _, ok := s.addresses[addr]; ok {
		return satbrowse.Conflict("Sender is already registered")
	}
	s.addresses[addr] = time.Now()
	return nil
}

func (s *SenderService) RemoveSender(ctx context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := strings.ToLower(strings.TrimSpace(address))
	if _, ok := s.addresses[addr]; !ok {
		return satbrowse.NotFound("Sender not found")
	}
	delete(s.addresses, addr)
	return nil
}

func (s *SenderService) ListSenders(ctx context.Context) ([]*satbrowse.Sender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	senders := make([]*satbrowse.Sender, 0, len(s.addresses))
	for addr, created := range s.addresses {
		senders = append(senders, &satbrowse.Sender{Address: addr, CreatedAt: created})
	}
	sort.Slice(senders, func(i, j int) bool {
		return senders[i].Address < senders[j].Address
	})
	return senders, nil
}

package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
	"github.com/fulcrumlabs/fulcrumbot/internal/ports"
)

type fakeRuntime struct {
	mu sync.Mutex

	pingErrs     []error // consumed per call; nil entry means success
	pingCalls    int
	daemonStarts int

	listing    string
	listingErr error

	resumed   []string
	resumeErr error

	launched  []ports.LaunchSpec
	launchErr error
}

var _ ports.ContainerRuntime = (*fakeRuntime)(nil)

func (f *fakeRuntime) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	if len(f.pingErrs) == 0 {
		return nil
	}
	err := f.pingErrs[0]
	f.pingErrs = f.pingErrs[1:]
	return err
}

func (f *fakeRuntime) StartDaemon(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.daemonStarts++
	return nil
}

func (f *fakeRuntime) Listing(context.Context, string) (string, error) {
	return f.listing, f.listingErr
}

func (f *fakeRuntime) Resume(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resumeErr != nil {
		return f.resumeErr
	}
	f.resumed = append(f.resumed, name)
	return nil
}

func (f *fakeRuntime) Launch(_ context.Context, spec ports.LaunchSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launchErr != nil {
		return f.launchErr
	}
	f.launched = append(f.launched, spec)
	return nil
}

func alwaysDown(n int) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = errors.New("connection refused")
	}
	return errs
}

type fakeVolumes struct {
	names      []string
	namesErr   error
	slotCalls  int
	createdDir string
}

var _ ports.VolumeStore = (*fakeVolumes)(nil)

func (f *fakeVolumes) SlotNames(context.Context) ([]string, error) {
	return f.names, f.namesErr
}

func (f *fakeVolumes) CreateSlot(ctx context.Context) (domain.VolumeSlot, error) {
	if f.namesErr != nil {
		return domain.VolumeSlot{}, f.namesErr
	}
	f.slotCalls++
	slot := domain.NextSlot(f.names)
	f.names = append(f.names, slot.Path)
	if f.createdDir != "" {
		slot.Path = f.createdDir + "/" + slot.Path
	}
	return slot, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

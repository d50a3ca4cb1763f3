package disk

import (
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
	"go.uber.org/zap"
)

// DiskRequest is a single unit of scheduled I/O: a read or a write of
// exactly page.BodySize bytes for a page id, with a completion channel that
// stands in for a C++ std::promise/std::future pair.
type DiskRequest struct {
	IsWrite    bool
	Buffer     []byte
	PageID     util.PageID
	Completion chan error
}

// Scheduler is the buffer pool's handle onto asynchronous disk I/O. It
// mirrors spec.md §6's disk scheduler capability set.
type Scheduler interface {
	// Schedule enqueues req; the scheduler fulfills req.Completion when done.
	Schedule(req DiskRequest)
	// CreatePromise returns a fresh completion channel for a DiskRequest.
	CreatePromise() chan error
	// IncreaseDiskSpace ensures capacity for pageID; infallible (a failure
	// here is a fatal configuration error, not expected control flow).
	IncreaseDiskSpace(pageID util.PageID)
	// DeallocatePage records that pageID is free to reuse.
	DeallocatePage(pageID util.PageID)
	// Stop drains and shuts down the scheduler's worker goroutine.
	Stop()
}

// scheduler is a single-worker-goroutine implementation of Scheduler backed
// by a Manager. Requests are served in submission order.
type scheduler struct {
	manager *Manager
	logger  *zap.SugaredLogger
	reqCh   chan DiskRequest
	doneCh  chan struct{}
}

// NewScheduler starts a background worker goroutine dispatching requests to
// manager, and returns a handle to it.
func NewScheduler(manager *Manager, logger *zap.SugaredLogger) Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &scheduler{
		manager: manager,
		logger:  logger,
		reqCh:   make(chan DiskRequest, 64),
		doneCh:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *scheduler) run() {
	for req := range s.reqCh {
		var err error
		if req.IsWrite {
			err = s.manager.WritePage(req.PageID, req.Buffer)
			if err != nil {
				s.logger.Errorw("scheduled write failed", "page_id", req.PageID, "error", err)
			} else {
				s.logger.Debugw("scheduled write complete", "page_id", req.PageID)
			}
		} else {
			err = s.manager.ReadPage(req.PageID, req.Buffer)
			if err != nil {
				s.logger.Errorw("scheduled read failed", "page_id", req.PageID, "error", err)
			} else {
				s.logger.Debugw("scheduled read complete", "page_id", req.PageID)
			}
		}
		if req.Completion != nil {
			req.Completion <- err
		}
	}
	close(s.doneCh)
}

func (s *scheduler) Schedule(req DiskRequest) {
	s.reqCh <- req
}

func (s *scheduler) CreatePromise() chan error {
	return make(chan error, 1)
}

func (s *scheduler) IncreaseDiskSpace(pageID util.PageID) {
	if err := s.manager.IncreaseDiskSpace(pageID); err != nil {
		s.logger.Fatalw("failed to increase disk space", "page_id", pageID, "error", err)
	}
}

func (s *scheduler) DeallocatePage(pageID util.PageID) {
	s.manager.DeallocatePage(pageID)
}

func (s *scheduler) Stop() {
	close(s.reqCh)
	<-s.doneCh
}

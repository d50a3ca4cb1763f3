package main

import (
	"os"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/buffer"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/disk"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	opts := util.DefaultOptions()
	opts.Path = "arraydb.heap"
	opts.BufferPoolSize = 16

	manager, err := disk.NewManager(opts.Path, 4)
	if err != nil {
		sugar.Fatalw("open heap file", "error", err)
	}
	defer manager.Close()

	scheduler := disk.NewScheduler(manager, sugar)
	defer scheduler.Stop()

	pool := buffer.NewPool(opts.BufferPoolSize, scheduler, opts.KDistance, sugar)

	pageID := pool.NewPage()
	wg := pool.WritePage(pageID)
	copy(wg.Data(), []byte("hello, arraydb"))
	wg.Release()

	rg := pool.ReadPage(pageID)
	sugar.Infow("round-tripped page", "page_id", pageID, "data", string(rg.Data()[:14]))
	rg.Release()
}

package main

import (
	"context"
	"os"

	"vlxref/internal/buildpipeline"
	"vlxref/internal/ui"
)

type indexOutcome struct {
	result buildpipeline.IndexResult
	err    error
}

func runIndexWithUI(ctx context.Context, title string, files []string, req *buildpipeline.IndexRequest) (buildpipeline.IndexResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan indexOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink(events)
		res, err := buildpipeline.Index(ctx, &reqCopy)
		outcomeCh <- indexOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.RunProgress(ctx, os.Stderr, title, files, events)
	if uiErr != nil {
		// интерфейс закрылся раньше: не блокировать индексацию
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

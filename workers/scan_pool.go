package workers

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/nithin2k5/yoloGenerator/media"
	"golang.org/x/crypto/blake2b"
)

// ErrFileMissing marks a probe whose file does not exist on disk
var ErrFileMissing = errors.New("image file not found")

// ProbeResult is what one worker learned about one image file
type ProbeResult struct {
	Index  int
	Path   string
	Hash   string // hex BLAKE2b-256 of the raw file bytes
	Format string
	Width  int
	Height int
	Err    error
}

type probeJob struct {
	Index int
	Path  string
}

// ScanPool reads, hashes and decodes image files with a bounded number of
// goroutines. Results come back in input order regardless of worker count.
type ScanPool struct {
	decoder    media.Decoder
	numWorkers int
}

func NewScanPool(decoder media.Decoder, numWorkers int) *ScanPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &ScanPool{decoder: decoder, numWorkers: numWorkers}
}

// Probe handles a single file on the calling goroutine
func (p *ScanPool) Probe(path string) ProbeResult {
	res := ProbeResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			res.Err = fmt.Errorf("%w: %s", ErrFileMissing, path)
		} else {
			res.Err = fmt.Errorf("failed to read image file %s: %w", path, err)
		}
		return res
	}

	sum := blake2b.Sum256(data)
	res.Hash = hex.EncodeToString(sum[:])

	format, err := p.decoder.Verify(bytes.NewReader(data))
	if err != nil {
		res.Err = err
		return res
	}
	res.Format = format

	width, height, err := p.decoder.Load(bytes.NewReader(data))
	if err != nil {
		res.Err = err
		return res
	}
	res.Width = width
	res.Height = height
	return res
}

// Run probes all paths. If ctx is cancelled, unprocessed entries carry ctx.Err().
func (p *ScanPool) Run(ctx context.Context, paths []string) []ProbeResult {
	results := make([]ProbeResult, len(paths))
	if len(paths) == 0 {
		return results
	}

	if p.numWorkers == 1 {
		for i, path := range paths {
			if err := ctx.Err(); err != nil {
				results[i] = ProbeResult{Index: i, Path: path, Err: err}
				continue
			}
			results[i] = p.Probe(path)
			results[i].Index = i
		}
		return results
	}

	numWorkers := p.numWorkers
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	jobQueue := make(chan probeJob, numWorkers)
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(id int) {
			defer wg.Done()
			for job := range jobQueue {
				res := p.Probe(job.Path)
				res.Index = job.Index
				if res.Err != nil {
					log.Printf("Worker %d: probe of %s failed: %v", id, job.Path, res.Err)
				}
				// each index is written by exactly one worker
				results[job.Index] = res
			}
		}(w)
	}

	queued := 0
feed:
	for i, path := range paths {
		select {
		case jobQueue <- probeJob{Index: i, Path: path}:
			queued++
		case <-ctx.Done():
			break feed
		}
	}
	close(jobQueue)
	wg.Wait()

	if queued < len(paths) {
		log.Printf("Scan pool: cancelled after queueing %d of %d files: %v", queued, len(paths), ctx.Err())
		for i := queued; i < len(paths); i++ {
			results[i] = ProbeResult{Index: i, Path: paths[i], Err: ctx.Err()}
		}
	}
	return results
}

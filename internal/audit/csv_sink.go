package audit

import (
	"bufio"
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	chanSize    = 4096
	bufSize     = 1 << 16
	flushPeriod = 1 * time.Second
)

// CSVSink is an async, non-blocking, daily-rotating CSV audit sink.
// Record never blocks the caller: a full channel drops the event
// rather than stall the producer, mirroring the teacher's
// internal/logger.Logger hot-path guarantee.
type CSVSink struct {
	ch     chan Event
	done   chan struct{}
}

// NewCSVSink starts the sink's background goroutine, writing daily
// files under dir.
func NewCSVSink(dir string) *CSVSink {
	s := &CSVSink{
		ch:   make(chan Event, chanSize),
		done: make(chan struct{}),
	}
	go s.run(dir)
	return s
}

func (s *CSVSink) Record(e Event) {
	select {
	case s.ch <- e:
	default:
		// Sink backed up; drop rather than block the caller.
	}
}

func (s *CSVSink) Close() {
	close(s.ch)
	<-s.done
}

func (s *CSVSink) run(dir string) {
	defer close(s.done)

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("audit: failed to create dir %s: %v", dir, err)
		return
	}

	var (
		currentDay string
		file       *os.File
		writer     *bufio.Writer
		csvw       *csv.Writer
	)

	ticker := time.NewTicker(flushPeriod)
	defer ticker.Stop()

	openFile := func(day string) {
		if csvw != nil {
			csvw.Flush()
			writer.Flush()
		}
		if file != nil {
			file.Close()
		}
		path := filepath.Join(dir, day+".csv")
		var err error
		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("audit: failed to open %s: %v", path, err)
			return
		}
		writer = bufio.NewWriterSize(file, bufSize)
		csvw = csv.NewWriter(writer)

		info, _ := file.Stat()
		if info != nil && info.Size() == 0 {
			csvw.Write([]string{"timestamp", "category", "severity", "outcome", "actor", "action", "detail"})
		}
		currentDay = day
	}

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				if csvw != nil {
					csvw.Flush()
					writer.Flush()
				}
				if file != nil {
					file.Close()
				}
				return
			}
			day := e.Timestamp.UTC().Format("2006-01-02")
			if day != currentDay {
				openFile(day)
			}
			if csvw == nil {
				continue
			}
			csvw.Write([]string{
				strconv.FormatInt(e.Timestamp.UnixMilli(), 10),
				string(e.Category),
				string(e.Severity),
				string(e.Outcome),
				e.Actor,
				e.Action,
				e.Detail,
			})
		case <-ticker.C:
			if csvw != nil {
				csvw.Flush()
				writer.Flush()
			}
		}
	}
}

// Package journal records the primitives of formatting runs in a bbolt
// database, so a file left half formatted by a failure can be examined
// afterwards.
//
// Every run gets a UUID. Its metadata lives in the "runs" bucket and its
// operations, in the order they were applied, in a bucket of the same name
// under "ops".
package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/Giulio2002/ftext"
)

// DefaultBatchSize is how many operations are buffered before a write
// transaction is committed.
const DefaultBatchSize = 256

var (
	runsBucket = []byte("runs")
	opsBucket  = []byte("ops")
)

// opSize is the encoded size of one operation: kind, offset, range, size.
const opSize = 1 + 8 + 8 + 8

// ErrRunNotFound is returned when a run ID is not in the journal.
var ErrRunNotFound = errors.New("journal: run not found")

// RunInfo describes one formatting run.
type RunInfo struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	Mode         string    `json:"mode"`
	Width        int       `json:"width"`
	OriginalSize int       `json:"original_size"`
	FinalSize    int       `json:"final_size"`
	Ops          uint64    `json:"ops"`
	Started      time.Time `json:"started"`
	Finished     time.Time `json:"finished,omitempty"`
	Err          string    `json:"error,omitempty"`
}

// Complete reports whether the run finished without error.
func (r RunInfo) Complete() bool {
	return !r.Finished.IsZero() && r.Err == ""
}

// Journal is an open journal database.
type Journal struct {
	db        *bolt.DB
	batchSize int
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(runsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(opsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: init %s: %w", path, err)
	}

	return &Journal{db: db, batchSize: DefaultBatchSize}, nil
}

// SetBatchSize changes how many operations are buffered per commit.
func (j *Journal) SetBatchSize(n int) {
	if n < 1 {
		n = 1
	}
	j.batchSize = n
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Begin starts a run and stores its metadata. ID and Started are filled in.
func (j *Journal) Begin(info RunInfo) (*Run, error) {
	info.ID = uuid.NewString()
	info.Started = time.Now().UTC()

	err := j.db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.Bucket(opsBucket).CreateBucket([]byte(info.ID)); err != nil {
			return err
		}
		return putRun(tx, info)
	})
	if err != nil {
		return nil, fmt.Errorf("journal: begin run: %w", err)
	}

	return &Run{j: j, info: info}, nil
}

// Runs returns every recorded run, oldest first.
func (j *Journal) Runs() ([]RunInfo, error) {
	var runs []RunInfo
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(k, v []byte) error {
			var info RunInfo
			if err := json.Unmarshal(v, &info); err != nil {
				return fmt.Errorf("run %s: %w", k, err)
			}
			runs = append(runs, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].Started.Before(runs[b].Started)
	})
	return runs, nil
}

// Run returns the metadata of one run.
func (j *Journal) Run(id string) (RunInfo, error) {
	var info RunInfo
	err := j.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(runsBucket).Get([]byte(id))
		if v == nil {
			return ErrRunNotFound
		}
		return json.Unmarshal(v, &info)
	})
	return info, err
}

// Ops returns the operations of one run in the order they were applied.
func (j *Journal) Ops(id string) ([]ftext.Op, error) {
	var ops []ftext.Op
	err := j.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(opsBucket).Bucket([]byte(id))
		if b == nil {
			return ErrRunNotFound
		}
		return b.ForEach(func(_, v []byte) error {
			op, err := decodeOp(v)
			if err != nil {
				return err
			}
			ops = append(ops, op)
			return nil
		})
	})
	return ops, err
}

// Run is one formatting run being recorded. It implements ftext.Recorder.
// A Run is used by the single goroutine that formats the file.
type Run struct {
	j       *Journal
	info    RunInfo
	pending [][]byte
}

// ID returns the run's identifier.
func (r *Run) ID() string {
	return r.info.ID
}

// Record buffers op and commits the buffer when it is full.
func (r *Run) Record(op ftext.Op) error {
	r.pending = append(r.pending, encodeOp(op))
	if len(r.pending) >= r.j.batchSize {
		return r.Flush()
	}
	return nil
}

// Flush commits buffered operations.
func (r *Run) Flush() error {
	if len(r.pending) == 0 {
		return nil
	}

	info := r.info
	err := r.j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(opsBucket).Bucket([]byte(info.ID))
		if b == nil {
			return ErrRunNotFound
		}
		for _, v := range r.pending {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			var key [8]byte
			binary.BigEndian.PutUint64(key[:], seq)
			if err := b.Put(key[:], v); err != nil {
				return err
			}
		}
		info.Ops += uint64(len(r.pending))
		return putRun(tx, info)
	})
	if err != nil {
		return fmt.Errorf("journal: flush run %s: %w", info.ID, err)
	}

	r.info = info
	r.pending = r.pending[:0]
	return nil
}

// Finish flushes what is left and records how the run ended.
func (r *Run) Finish(finalSize int, runErr error) error {
	if err := r.Flush(); err != nil {
		return err
	}

	r.info.FinalSize = finalSize
	r.info.Finished = time.Now().UTC()
	if runErr != nil {
		r.info.Err = runErr.Error()
	}

	return r.j.db.Update(func(tx *bolt.Tx) error {
		return putRun(tx, r.info)
	})
}

func putRun(tx *bolt.Tx, info RunInfo) error {
	v, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return tx.Bucket(runsBucket).Put([]byte(info.ID), v)
}

func encodeOp(op ftext.Op) []byte {
	buf := make([]byte, opSize)
	buf[0] = byte(op.Kind)
	binary.BigEndian.PutUint64(buf[1:], uint64(op.Offset))
	binary.BigEndian.PutUint64(buf[9:], uint64(op.Range))
	binary.BigEndian.PutUint64(buf[17:], uint64(op.Size))
	return buf
}

func decodeOp(v []byte) (ftext.Op, error) {
	if len(v) != opSize {
		return ftext.Op{}, fmt.Errorf("journal: bad operation record of %d bytes", len(v))
	}
	return ftext.Op{
		Kind:   ftext.OpKind(v[0]),
		Offset: int(binary.BigEndian.Uint64(v[1:])),
		Range:  int(binary.BigEndian.Uint64(v[9:])),
		Size:   int(binary.BigEndian.Uint64(v[17:])),
	}, nil
}

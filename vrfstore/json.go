// Copyright 2017 Microsoft. All rights reserved.
// MIT License

package vrfstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// DefaultPath is where the record file lives unless configured otherwise.
	DefaultPath = "/var/lib/ops-utils/vrf.json"

	// Extension added to the file name for lock.
	lockExtension = ".lock"

	// Maximum number of retries before failing a lock call.
	lockMaxRetries = 200

	// Delay between lock retries.
	lockRetryDelay = 100 * time.Millisecond
)

var (
	ErrStoreLocked                    = errors.New("store is already locked")
	ErrStoreNotLocked                 = errors.New("store is not locked")
	ErrTimeoutLockingStore            = errors.New("timed out locking store")
	ErrNonBlockingLockIsAlreadyLocked = errors.New("attempted non-blocking lock on an already locked store")
	ErrDuplicateRecord                = errors.New("vrf record conflicts with an existing one")
)

type fileContents struct {
	VRFs []Record `json:"vrfs"`
}

// FileStore keeps VRF records in a local JSON file. Every read goes to disk,
// so records changed by another process are seen on the next lookup.
type FileStore struct {
	fileName string
	locked   bool
	sync.Mutex
}

func NewFileStore(fileName string) *FileStore {
	if fileName == "" {
		fileName = DefaultPath
	}

	return &FileStore{fileName: fileName}
}

// Path returns the backing file.
func (fs *FileStore) Path() string {
	return fs.fileName
}

// Records returns the records in the file. A missing file holds no records.
func (fs *FileStore) Records() ([]Record, error) {
	fs.Mutex.Lock()
	defer fs.Mutex.Unlock()

	return fs.read()
}

func (fs *FileStore) read() ([]Record, error) {
	file, err := os.Open(fs.fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "open vrf store")
	}
	defer file.Close()

	var contents fileContents
	if err := json.NewDecoder(file).Decode(&contents); err != nil {
		return nil, errors.Wrapf(err, "decode %s", fs.fileName)
	}

	return contents.VRFs, nil
}

// Put adds rec or replaces the record with the same uuid.
// Names and table ids stay unique across records.
func (fs *FileStore) Put(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	fs.Mutex.Lock()
	defer fs.Mutex.Unlock()

	records, err := fs.read()
	if err != nil {
		return err
	}

	replaced := false
	for i := range records {
		r := &records[i]
		if r.UUID == rec.UUID {
			*r = rec
			replaced = true
			continue
		}
		if truncate(r.Name) == truncate(rec.Name) {
			return errors.Wrapf(ErrDuplicateRecord, "name %s is used by %s", rec.Name, r.UUID)
		}
		if r.TableID != nil && rec.TableID != nil && *r.TableID == *rec.TableID {
			return errors.Wrapf(ErrDuplicateRecord, "table id %d is used by %s", *rec.TableID, r.Name)
		}
	}

	if !replaced {
		records = append(records, rec)
	}

	return fs.flush(records)
}

// Delete removes the record identified by id.
func (fs *FileStore) Delete(id uuid.UUID) error {
	fs.Mutex.Lock()
	defer fs.Mutex.Unlock()

	records, err := fs.read()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].UUID == id {
			return fs.flush(append(records[:i], records[i+1:]...))
		}
	}

	return errors.Wrapf(ErrRecordNotFound, "uuid %s", id)
}

func (fs *FileStore) flush(records []Record) (err error) {
	if records == nil {
		records = []Record{}
	}

	buf, err := json.MarshalIndent(&fileContents{VRFs: records}, "", "\t")
	if err != nil {
		return err
	}

	dir, file := filepath.Split(fs.fileName)
	if dir == "" {
		dir = "."
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "cannot create store directory")
	}

	f, err := os.CreateTemp(dir, file)
	if err != nil {
		return errors.Wrap(err, "cannot create temp file")
	}

	tmpFileName := f.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpFileName)
			f.Close()
		}
	}()

	if _, err = f.Write(buf); err != nil {
		return errors.Wrap(err, "temp file write failed")
	}

	if err = f.Close(); err != nil {
		return errors.Wrap(err, "temp file close failed")
	}

	// atomic replace
	if err = os.Rename(tmpFileName, fs.fileName); err != nil {
		return errors.Wrap(err, "rename temp file to store file failed")
	}

	return nil
}

// Lock takes the store's lock file for exclusive access across processes.
// A blocking Lock waits while the holder keeps touching the lock file and
// gives up after lockMaxRetries attempts without progress.
func (fs *FileStore) Lock(block bool) error {
	fs.Mutex.Lock()
	defer fs.Mutex.Unlock()

	if fs.locked {
		return ErrStoreLocked
	}

	lockName := fs.fileName + lockExtension
	if err := os.MkdirAll(filepath.Dir(lockName), 0o755); err != nil {
		return errors.Wrap(err, "cannot create store directory")
	}

	lockFile, err := createLockFile(lockName, block)
	if err != nil {
		return err
	}
	defer lockFile.Close()

	// The holder's pid identifies a stale lock.
	if _, err = lockFile.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		return errors.Wrap(err, "write lock file")
	}

	fs.locked = true

	return nil
}

func createLockFile(lockName string, block bool) (*os.File, error) {
	var lastMod time.Time

	for attempts := 0; attempts < lockMaxRetries; attempts++ {
		f, err := os.OpenFile(lockName, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o664|os.ModeExclusive)
		if err == nil {
			return f, nil
		}

		if !block {
			return nil, ErrNonBlockingLockIsAlreadyLocked
		}

		if info, statErr := os.Stat(lockName); statErr == nil && !info.ModTime().Equal(lastMod) {
			lastMod = info.ModTime()
			attempts = 0
		}

		time.Sleep(lockRetryDelay)
	}

	return nil, ErrTimeoutLockingStore
}

// Unlock releases the lock file. forceUnlock removes it even if this store did not take it.
func (fs *FileStore) Unlock(forceUnlock bool) error {
	fs.Mutex.Lock()
	defer fs.Mutex.Unlock()

	if !forceUnlock && !fs.locked {
		return ErrStoreNotLocked
	}

	if err := os.Remove(fs.fileName + lockExtension); err != nil {
		return errors.Wrap(err, "remove lock file")
	}

	fs.locked = false

	return nil
}

// GetModificationTime returns the modification time of the record file.
func (fs *FileStore) GetModificationTime() (time.Time, error) {
	fs.Mutex.Lock()
	defer fs.Mutex.Unlock()

	info, err := os.Stat(fs.fileName)
	if err != nil {
		return time.Time{}.UTC(), errors.Wrap(err, "stat vrf store")
	}

	return info.ModTime().UTC(), nil
}

package db

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"

	"github.com/apex/log"
	"github.com/pkg/errors"

	apiError "github.com/wildsighthq/wildsight/errors"
)

// Each record set is persisted as a whole-set JSON snapshot on every
// mutation. There is no incremental log: the file always holds the full
// current set.

// readSnapshot loads a snapshot into v. A missing or unparseable file is
// treated as an empty set: the stores favor availability over strict
// durability, so corruption never takes the system down.
func readSnapshot(path string, v interface{}) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithField("path", path).Warnf("snapshot read failed, starting empty: %v", err)
		}
		return
	}
	if len(raw) == 0 {
		return
	}
	// Decode into a scratch value first. Unmarshal fills the destination
	// element by element before reporting a type mismatch, so decoding
	// straight into v would leave a partial set behind on failure.
	tmp := reflect.New(reflect.TypeOf(v).Elem())
	if err := json.Unmarshal(raw, tmp.Interface()); err != nil {
		log.WithField("path", path).Warnf("snapshot unparseable, starting empty: %v", err)
		return
	}
	reflect.ValueOf(v).Elem().Set(tmp.Elem())
}

// writeSnapshot persists the full set. On failure the caller must not apply
// the corresponding in-memory mutation, so a failed write never leaves the
// two copies disagreeing.
func writeSnapshot(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(apiError.ErrStorageFailure, err.Error())
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(apiError.ErrStorageFailure, err.Error())
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrap(apiError.ErrStorageFailure, err.Error())
	}
	return nil
}

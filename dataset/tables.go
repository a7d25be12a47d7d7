package dataset

import (
	"encoding/csv"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	rc "github.com/sharnoff/relclass"
)

type tokenRow struct {
	ID    int    `csv:"id"`
	Token string `csv:"token"`
}

type relationRow struct {
	ID   int    `csv:"id"`
	Name string `csv:"name"`
}

// readTSV decodes a tab-separated table with a header row into out, which must be a pointer to a
// slice of structs with csv tags.
func readTSV(fs afero.Fs, path string, out interface{}) error {
	f, err := fs.Open(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to open %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	if err = gocsv.UnmarshalCSV(r, out); err != nil {
		return errors.Wrapf(err, "Failed to decode %q", path)
	}

	return nil
}

// ReadTokens reads an id to token (or character) table.
func ReadTokens(fs afero.Fs, path string) (rc.Lookup, error) {
	var rows []tokenRow
	if err := readTSV(fs, path, &rows); err != nil {
		return nil, err
	}

	l := make(rc.Lookup, len(rows))
	for i, r := range rows {
		if _, ok := l[r.ID]; ok {
			return nil, errors.Errorf("%s: duplicate id %d on row %d", filepath.Base(path), r.ID, i+1)
		}
		l[r.ID] = r.Token
	}

	return l, nil
}

// ReadRelations reads the id to relation name table. Ids must be exactly 0 to n-1, with 0 as the
// negative class.
func ReadRelations(fs afero.Fs, path string) (rc.Lookup, error) {
	var rows []relationRow
	if err := readTSV(fs, path, &rows); err != nil {
		return nil, err
	}

	l := make(rc.Lookup, len(rows))
	for i, r := range rows {
		if _, ok := l[r.ID]; ok {
			return nil, errors.Errorf("%s: duplicate id %d on row %d", filepath.Base(path), r.ID, i+1)
		}
		l[r.ID] = r.Name
	}

	for id := 0; id < len(l); id++ {
		if _, ok := l[id]; !ok {
			return nil, errors.Errorf("%s: relation ids must be 0 to %d, missing %d", filepath.Base(path), len(l)-1, id)
		}
	}

	return l, nil
}

package cars

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

// ExpandImportPatterns resolves file glob patterns (with ** support) into
// a sorted, de-duplicated list of files. A pattern that matches nothing
// is an error.
func ExpandImportPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// DecodeImport reads either a single car object or an array of cars and
// validates each of them.
func DecodeImport(r io.Reader) ([]NewCar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty import file")
	}

	var list []NewCar
	if data[0] == '[' {
		err = json.Unmarshal(data, &list)
	} else {
		var one NewCar
		err = json.Unmarshal(data, &one)
		list = []NewCar{one}
	}
	if err != nil {
		return nil, fmt.Errorf("decoding cars: %w", err)
	}

	for i, car := range list {
		if err := validate.Struct(car); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				fields := make(map[string]string, len(verrs))
				for _, fe := range verrs {
					fields[fe.Field()] = fieldMessage(fe)
				}
				err = &FormError{Fields: fields}
			}
			return nil, fmt.Errorf("car %d: %w", i+1, err)
		}
	}
	return list, nil
}

// ReadImportFile opens path and decodes it with DecodeImport.
func ReadImportFile(path string) ([]NewCar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	list, err := DecodeImport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"

	"github.com/plurigrid/funq/internal/statement"
)

// Error code constants shared by all CLI commands.
const (
	ErrCodeGeneric     = "E001" // generic/unknown error
	ErrCodeScanError   = "E002" // directory scan error
	ErrCodeNoFiles     = "E003" // no document files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // file write error
	ErrCodeBadDocument = "E008" // document does not decode
)

// LoadMode controls how errors are handled during document loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the documents loaded from a directory.
type LoadResult struct {
	Schemas    []*statement.SchemaDoc
	Migrations []*statement.MigrationDoc
	FileCount  int
}

// SchemaByName finds a loaded schema document, or nil.
func (r *LoadResult) SchemaByName(name string) *statement.SchemaDoc {
	for _, s := range r.Schemas {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// MigrationByName finds a loaded migration document, or nil.
func (r *LoadResult) MigrationByName(name string) *statement.MigrationDoc {
	for _, m := range r.Migrations {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// LoadError is an error produced while loading documents.
type LoadError struct {
	Code    string
	File    string
	Message string
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDocuments loads schema and migration documents from a directory.
// CUE files are loaded as one instance with top-level `schema` and
// `migration` structs keyed by name; YAML files each carry `schemas` and
// `migrations` lists. Both decode into the same abstract statement trees.
func LoadDocuments(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("documents directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing documents directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, yamlFiles, err := findDocumentFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no .cue or .yaml documents found in %s", dir)}}
	}

	result := &LoadResult{FileCount: len(cueFiles) + len(yamlFiles)}
	var errs []error

	if len(cueFiles) > 0 {
		cueErrs := loadCUE(dir, result, mode)
		errs = append(errs, cueErrs...)
		if mode == LoadModeFailFast && len(errs) > 0 {
			return result, errs
		}
	}
	for _, path := range yamlFiles {
		if err := loadYAML(path, result); err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return result, errs
			}
		}
	}

	errs = append(errs, checkDuplicateNames(result)...)
	if len(result.Schemas) == 0 && len(result.Migrations) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no schemas or migrations found in documents"})
	}
	return result, errs
}

func findDocumentFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".cue":
			cueFiles = append(cueFiles, path)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, path)
		}
		return nil
	})
	return cueFiles, yamlFiles, err
}

func loadCUE(dir string, result *LoadResult, mode LoadMode) []error {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	var errs []error
	schemas := value.LookupPath(cue.ParsePath("schema"))
	if schemas.Exists() {
		iter, err := schemas.Fields()
		if err != nil {
			return append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating schemas: %v", err)})
		}
		for iter.Next() {
			var w wireSchema
			if err := iter.Value().Decode(&w); err != nil {
				errs = append(errs, &LoadError{Code: ErrCodeBadDocument,
					Message: fmt.Sprintf("schema.%s: %v", iter.Selector(), err)})
				if mode == LoadModeFailFast {
					return errs
				}
				continue
			}
			if w.Name == "" {
				w.Name = iter.Selector().Unquoted()
			}
			result.Schemas = append(result.Schemas, w.toStatement())
		}
	}
	migrations := value.LookupPath(cue.ParsePath("migration"))
	if migrations.Exists() {
		iter, err := migrations.Fields()
		if err != nil {
			return append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating migrations: %v", err)})
		}
		for iter.Next() {
			var w wireMigration
			if err := iter.Value().Decode(&w); err != nil {
				errs = append(errs, &LoadError{Code: ErrCodeBadDocument,
					Message: fmt.Sprintf("migration.%s: %v", iter.Selector(), err)})
				if mode == LoadModeFailFast {
					return errs
				}
				continue
			}
			if w.Name == "" {
				w.Name = iter.Selector().Unquoted()
			}
			doc, err := w.toStatement()
			if err != nil {
				errs = append(errs, &LoadError{Code: ErrCodeBadDocument,
					Message: fmt.Sprintf("migration.%s: %v", iter.Selector(), err)})
				if mode == LoadModeFailFast {
					return errs
				}
				continue
			}
			result.Migrations = append(result.Migrations, doc)
		}
	}
	return errs
}

func loadYAML(path string, result *LoadResult) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Code: ErrCodeScanError, File: path, Message: fmt.Sprintf("reading file: %v", err)}
	}
	var docs wireDocuments
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return &LoadError{Code: ErrCodeBadDocument, File: path, Message: fmt.Sprintf("decoding YAML: %v", err)}
	}
	for _, w := range docs.Schemas {
		result.Schemas = append(result.Schemas, w.toStatement())
	}
	for _, w := range docs.Migrations {
		doc, err := w.toStatement()
		if err != nil {
			return &LoadError{Code: ErrCodeBadDocument, File: path, Message: err.Error()}
		}
		result.Migrations = append(result.Migrations, doc)
	}
	return nil
}

func checkDuplicateNames(result *LoadResult) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, s := range result.Schemas {
		if seen[s.Name] {
			errs = append(errs, &LoadError{Code: ErrCodeBadDocument,
				Message: fmt.Sprintf("schema %q declared more than once", s.Name)})
		}
		seen[s.Name] = true
	}
	seen = make(map[string]bool)
	for _, m := range result.Migrations {
		if seen[m.Name] {
			errs = append(errs, &LoadError{Code: ErrCodeBadDocument,
				Message: fmt.Sprintf("migration %q declared more than once", m.Name)})
		}
		seen[m.Name] = true
	}
	return errs
}

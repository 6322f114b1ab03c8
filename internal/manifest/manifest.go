// Package manifest loads migration manifests from YAML files and compiles
// them into executable migrations. A manifest file is named
// "<revision>_<name>.yaml" and may declare created tables, seed rows, and
// raw SQL escape hatches.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/masonry-db/masonry/internal/ddl"
	"github.com/masonry-db/masonry/internal/dml"
	"github.com/masonry-db/masonry/internal/migrate"
	"github.com/masonry-db/masonry/internal/mserr"
)

// fileNamePattern captures revision and name from a manifest file name.
var fileNamePattern = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.ya?ml$`)

type manifestFile struct {
	Revision     string       `yaml:"revision"`
	Name         string       `yaml:"name"`
	CreateTables []tableBlock `yaml:"create_table"`
	Seeds        []seedBlock  `yaml:"seed"`
	RawUp        []string     `yaml:"up"`
	RawDown      []string     `yaml:"down"`
}

type tableBlock struct {
	Name               string        `yaml:"name"`
	Columns            []columnBlock `yaml:"columns"`
	Indexes            []indexBlock  `yaml:"indexes"`
	Timestamps         bool          `yaml:"timestamps"`
	NullableTimestamps bool          `yaml:"nullable_timestamps"`
}

type columnBlock struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Default  string `yaml:"default"`
	Nullable *bool  `yaml:"nullable"`
	Primary  bool   `yaml:"primary"`
	Index    bool   `yaml:"index"`
	Unique   bool   `yaml:"unique"`
}

type indexBlock struct {
	Field  string `yaml:"field"`
	Name   string `yaml:"name"`
	Using  string `yaml:"using"`
	Unique bool   `yaml:"unique"`
}

type seedBlock struct {
	Table      string       `yaml:"table"`
	Columns    []string     `yaml:"columns"`
	Rows       [][]any      `yaml:"rows"`
	OnConflict yaml.Node    `yaml:"on_conflict"`
	Do         string       `yaml:"do"`
	Update     []updateExpr `yaml:"update"`
	Returning  string       `yaml:"returning"`
}

type updateExpr struct {
	Column string `yaml:"column"`
	Expr   string `yaml:"expr"`
}

// LoadDir loads every manifest in a directory, sorted by file name so
// revision order is load order.
func LoadDir(dir string) ([]migrate.Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, mserr.Wrap(mserr.ErrManifestNotFound, err, "cannot read migrations directory").
			WithFile(dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	migrations := make([]migrate.Migration, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, mserr.Wrap(mserr.ErrManifestNotFound, err, "cannot read manifest").
				WithFile(path)
		}
		m, err := Load(path, data)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, *m)
	}
	return migrations, nil
}

// Load parses one manifest. The path supplies revision and name defaults
// and error context.
func Load(path string, data []byte) (*migrate.Migration, error) {
	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, mserr.Wrap(mserr.ErrManifestInvalid, err, "malformed manifest").
			WithFile(path)
	}

	revision, name := mf.Revision, mf.Name
	if m := fileNamePattern.FindStringSubmatch(filepath.Base(path)); m != nil {
		if revision == "" {
			revision = m[1]
		}
		if name == "" {
			name = m[2]
		}
	}
	if revision == "" {
		return nil, mserr.New(mserr.ErrManifestInvalid,
			"manifest needs a revision, either in the file or as a NNNN_name.yaml file name").
			WithFile(path)
	}

	out := &migrate.Migration{
		Revision: revision,
		Name:     name,
		Source:   path,
		Checksum: migrate.FileChecksum(data),
	}

	for _, tb := range mf.CreateTables {
		op, err := compileTable(path, tb)
		if err != nil {
			return nil, err
		}
		out.Ops = append(out.Ops, op)
	}
	if len(mf.RawUp) > 0 || len(mf.RawDown) > 0 {
		out.Ops = append(out.Ops, &ddl.Raw{UpSQL: mf.RawUp, DownSQL: mf.RawDown})
	}
	for i, sb := range mf.Seeds {
		seed, err := compileSeed(path, i, sb)
		if err != nil {
			return nil, err
		}
		out.Seeds = append(out.Seeds, seed)
	}
	return out, nil
}

func compileTable(path string, tb tableBlock) (*ddl.TableDefinition, error) {
	if tb.Name == "" {
		return nil, mserr.New(mserr.ErrManifestInvalid, "create_table block needs a name").
			WithFile(path)
	}

	def := ddl.CreateTable(tb.Name)
	for _, cb := range tb.Columns {
		if cb.Name == "" {
			return nil, mserr.New(mserr.ErrManifestInvalid, "column needs a name").
				WithFile(path).WithTable(tb.Name)
		}
		sqlType, ok := ddl.ResolveType(cb.Type)
		if !ok {
			return nil, mserr.New(mserr.ErrUnknownType, "unknown column type").
				WithFile(path).
				WithTable(tb.Name).
				WithColumn(cb.Name).
				With("type", cb.Type).
				WithHelp(fmt.Sprintf("known types: %s", strings.Join(ddl.TypeAliases(), ", ")))
		}

		var opts []ddl.ColumnOption
		if cb.Default != "" {
			opts = append(opts, ddl.Default(cb.Default))
		}
		if cb.Nullable != nil && !*cb.Nullable {
			opts = append(opts, ddl.NotNull())
		}
		if cb.Primary {
			opts = append(opts, ddl.Primary())
		}
		if cb.Unique {
			opts = append(opts, ddl.Unique())
		} else if cb.Index {
			opts = append(opts, ddl.Indexed())
		}
		def.AddColumn(cb.Name, sqlType, opts...)
	}

	if tb.Timestamps || tb.NullableTimestamps {
		def.Timestamps(tb.NullableTimestamps)
	}

	for _, ib := range tb.Indexes {
		if ib.Field == "" {
			return nil, mserr.New(mserr.ErrManifestInvalid, "index needs a field").
				WithFile(path).WithTable(tb.Name)
		}
		var opts []ddl.IndexOption
		if ib.Name != "" {
			opts = append(opts, ddl.IndexNamed(ib.Name))
		}
		if ib.Using != "" {
			opts = append(opts, ddl.IndexUsing(ib.Using))
		}
		if ib.Unique {
			opts = append(opts, ddl.IndexUnique())
		}
		def.AddIndex(ib.Field, opts...)
	}
	return def, nil
}

func compileSeed(path string, i int, sb seedBlock) (*dml.InsertStatement, error) {
	if sb.Table == "" {
		return nil, mserr.New(mserr.ErrManifestInvalid, "seed block needs a table").
			WithFile(path).With("seed", i)
	}

	stmt := dml.Insert(sb.Table)
	if len(sb.Columns) > 0 {
		stmt.Columns(sb.Columns...)
	}
	for _, row := range sb.Rows {
		stmt.Row(row...)
	}
	if sb.Returning != "" {
		stmt.Returning(sb.Returning)
	}

	if err := applyConflict(path, i, sb, stmt); err != nil {
		return nil, err
	}

	// Surface render-time errors (empty rows, missing table) at load time
	// so a bad manifest never reaches the runner.
	if _, err := stmt.Render(); err != nil {
		return nil, mserr.Wrap(mserr.ErrManifestInvalid, err, "seed does not render").
			WithFile(path).With("seed", i)
	}
	return stmt, nil
}

// applyConflict interprets the on_conflict node: true arms a bare clause,
// a string is a raw conflict target, and a mapping becomes a structured
// target plus WHERE predicates.
func applyConflict(path string, i int, sb seedBlock, stmt *dml.InsertStatement) error {
	node := sb.OnConflict
	switch {
	case node.IsZero():
		if sb.Do != "" {
			return mserr.New(mserr.ErrManifestInvalid, "seed action set without on_conflict").
				WithFile(path).With("seed", i)
		}
		return nil

	case node.Kind == yaml.ScalarNode:
		var asBool bool
		if err := node.Decode(&asBool); err == nil {
			// An explicit false is the same as no clause at all.
			if !asBool {
				if sb.Do != "" {
					return mserr.New(mserr.ErrManifestInvalid, "seed action set without on_conflict").
						WithFile(path).With("seed", i)
				}
				return nil
			}
			stmt.OnConflict()
		} else {
			var target string
			if err := node.Decode(&target); err != nil {
				return mserr.Wrap(mserr.ErrManifestInvalid, err, "bad on_conflict value").
					WithFile(path).With("seed", i)
			}
			stmt.OnConflictTarget(target)
		}

	case node.Kind == yaml.MappingNode:
		var structured struct {
			Target []string `yaml:"target"`
			Where  []string `yaml:"where"`
		}
		if err := node.Decode(&structured); err != nil {
			return mserr.Wrap(mserr.ErrManifestInvalid, err, "bad on_conflict mapping").
				WithFile(path).With("seed", i)
		}
		clause := dml.NewConflictClause(structured.Target...)
		for _, pred := range structured.Where {
			clause.Where(dml.RawPredicate(pred))
		}
		stmt.OnConflictClause(clause)

	default:
		return mserr.New(mserr.ErrManifestInvalid, "on_conflict must be a bool, string, or mapping").
			WithFile(path).With("seed", i)
	}

	switch sb.Do {
	case "", "nothing":
		stmt.DoNothing()
	case "update":
		if len(sb.Update) == 0 {
			return mserr.New(mserr.ErrManifestInvalid, "do: update needs update expressions").
				WithFile(path).With("seed", i)
		}
		stmt.DoUpdate(func(u *dml.UpdateStatement) {
			for _, ue := range sb.Update {
				u.SetExpr(ue.Column, ue.Expr)
			}
		})
	default:
		return mserr.New(mserr.ErrManifestInvalid, "seed action must be nothing or update").
			WithFile(path).With("seed", i).With("do", sb.Do)
	}
	return nil
}

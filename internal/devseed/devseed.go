// Package devseed loads the portal's page catalogue and mock datasets from
// embedded YAML fixtures, one file per role.
package devseed

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	domainauth "github.com/target/campus-portal/internal/domain/auth"
	"github.com/target/campus-portal/internal/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtures embed.FS

// Seed is the parsed fixture set.
type Seed struct {
	Catalog *model.Catalog
	Records map[model.PageRef][]map[string]string
}

type roleFile struct {
	Role  string     `yaml:"role"`
	Pages []pageFile `yaml:"pages"`
}

type pageFile struct {
	model.Page `yaml:",inline"`
	Records    []map[string]string `yaml:"records"`
}

// Load parses the embedded fixtures.
func Load() (Seed, error) {
	sub, err := fs.Sub(fixtures, "fixtures")
	if err != nil {
		return Seed{}, fmt.Errorf("open fixtures: %w", err)
	}
	return LoadFS(sub)
}

// LoadFS parses every *.yaml file at the root of fsys.
func LoadFS(fsys fs.FS) (Seed, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return Seed{}, fmt.Errorf("list fixtures: %w", err)
	}
	if len(names) == 0 {
		return Seed{}, errors.New("no fixture files found")
	}
	sort.Strings(names)

	var pages []model.Page
	records := make(map[model.PageRef][]map[string]string)
	for _, name := range names {
		raw, readErr := fs.ReadFile(fsys, name)
		if readErr != nil {
			return Seed{}, fmt.Errorf("read %s: %w", name, readErr)
		}
		var rf roleFile
		if unmarshalErr := yaml.Unmarshal(raw, &rf); unmarshalErr != nil {
			return Seed{}, fmt.Errorf("parse %s: %w", path.Base(name), unmarshalErr)
		}
		role, roleErr := domainauth.ParseRole(rf.Role)
		if roleErr != nil {
			return Seed{}, fmt.Errorf("%s: %w", name, roleErr)
		}
		for _, pf := range rf.Pages {
			p := pf.Page
			p.Role = role
			if p.Key == "" {
				return Seed{}, fmt.Errorf("%s: page without key", name)
			}
			if p.Title == "" {
				p.Title = p.Key
			}
			for i := range p.Fields {
				if p.Fields[i].Label == "" {
					p.Fields[i].Label = p.Fields[i].Name
				}
			}
			pages = append(pages, p)
			records[p.Ref()] = pf.Records
		}
	}
	return Seed{Catalog: model.NewCatalog(pages), Records: records}, nil
}

// MustLoad is Load for process start-up, where bad fixtures are a build defect.
func MustLoad() Seed {
	s, err := Load()
	if err != nil {
		panic(fmt.Sprintf("devseed: %v", err))
	}
	return s
}

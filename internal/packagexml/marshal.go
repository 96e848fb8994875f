package packagexml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"sort"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
)

type xmlPackage struct {
	XMLName     xml.Name        `xml:"package"`
	Version     string          `xml:"version,attr"`
	Name        string          `xml:"name"`
	Channel     string          `xml:"channel,omitempty"`
	Summary     string          `xml:"summary"`
	Description string          `xml:"description,omitempty"`
	Maintainers []xmlMaintainer `xml:"maintainers>maintainer"`
	Release     xmlRelease      `xml:"release"`
	Changelog   []xmlRelease    `xml:"changelog>release,omitempty"`
}

type xmlMaintainer struct {
	User  string `xml:"user"`
	Name  string `xml:"name,omitempty"`
	Email string `xml:"email,omitempty"`
	Role  string `xml:"role,omitempty"`
}

type xmlRelease struct {
	Version          string               `xml:"version,omitempty"`
	Date             string               `xml:"date,omitempty"`
	License          string               `xml:"license,omitempty"`
	State            string               `xml:"state,omitempty"`
	Notes            string               `xml:"notes,omitempty"`
	Warnings         string               `xml:"warnings,omitempty"`
	Deps             *xmlDeps             `xml:"deps,omitempty"`
	ConfigureOptions []xmlConfigureOption `xml:"configureoptions>configureoption,omitempty"`
	Provides         []xmlProvide         `xml:"provides,omitempty"`
	Files            []xmlFile            `xml:"filelist>file,omitempty"`
	PHPKind          *struct{}            `xml:"phprelease,omitempty"`
	Kind             *struct{}            `xml:"extsrcrelease,omitempty"`
	BinKind          *struct{}            `xml:"extbinrelease,omitempty"`
}

type xmlDeps struct {
	Deps   []xmlDep   `xml:"dep"`
	Groups []xmlGroup `xml:"group"`
}

type xmlGroup struct {
	Name string   `xml:"name,attr"`
	Hint string   `xml:"hint,attr,omitempty"`
	Deps []xmlDep `xml:"dep"`
}

type xmlDep struct {
	Type     string `xml:"type,attr"`
	Rel      string `xml:"rel,attr,omitempty"`
	Version  string `xml:"version,attr,omitempty"`
	Optional string `xml:"optional,attr,omitempty"`
	Channel  string `xml:"channel,attr,omitempty"`
	Name     string `xml:",chardata"`
}

type xmlConfigureOption struct {
	Name    string `xml:"name,attr"`
	Prompt  string `xml:"prompt,attr,omitempty"`
	Default string `xml:"default,attr,omitempty"`
}

type xmlProvide struct {
	Type    string `xml:"type,attr"`
	Name    string `xml:"name,attr"`
	Extends string `xml:"extends,attr,omitempty"`
}

type xmlFile struct {
	Name           string       `xml:"name,attr"`
	Role           string       `xml:"role,attr"`
	BaseInstallDir string       `xml:"baseinstalldir,attr,omitempty"`
	InstallAs      string       `xml:"install-as,attr,omitempty"`
	Platform       string       `xml:"platform,attr,omitempty"`
	MD5Sum         string       `xml:"md5sum,attr,omitempty"`
	Replacements   []xmlReplace `xml:"replace,omitempty"`
}

type xmlReplace struct {
	From string `xml:"from,attr"`
	To   string `xml:"to,attr"`
	Type string `xml:"type,attr"`
}

// Marshal renders pkg as a package.xml document that Parse reads back into an
// equivalent descriptor. Installation bookkeeping is not written.
func Marshal(pkg *descriptor.Package) ([]byte, error) {
	if pkg == nil {
		return nil, errors.New(messages.ParseDescriptorNilPassed)
	}
	doc := xmlPackage{
		Version:     pkg.XSDVersion,
		Name:        pkg.Name,
		Channel:     pkg.Channel,
		Summary:     pkg.Summary,
		Description: pkg.Description,
		Release: xmlRelease{
			Version:  pkg.Version,
			Date:     pkg.ReleaseDate,
			License:  pkg.ReleaseLicense,
			State:    pkg.ReleaseState,
			Notes:    pkg.ReleaseNotes,
			Warnings: pkg.ReleaseWarnings,
		},
	}
	if doc.Version == "" {
		doc.Version = "1.0"
	}
	for _, m := range pkg.Maintainers {
		doc.Maintainers = append(doc.Maintainers, xmlMaintainer{User: m.Handle, Name: m.Name, Email: m.Email, Role: m.Role})
	}

	rel := &doc.Release
	switch pkg.ReleaseKind {
	case descriptor.ReleasePHP:
		rel.PHPKind = &struct{}{}
	case descriptor.ReleaseExtSrc:
		rel.Kind = &struct{}{}
	case descriptor.ReleaseExtBin:
		rel.BinKind = &struct{}{}
	}
	if pkg.HasDeps() {
		rel.Deps = &xmlDeps{Deps: marshalDeps(pkg.Dependencies)}
		for _, g := range pkg.Groups {
			rel.Deps.Groups = append(rel.Deps.Groups, xmlGroup{Name: g.Name, Hint: g.Hint, Deps: marshalDeps(g.Dependencies)})
		}
	}
	for _, o := range pkg.ConfigureOptions {
		rel.ConfigureOptions = append(rel.ConfigureOptions, xmlConfigureOption(o))
	}
	keys := make([]string, 0, len(pkg.Provides))
	for key := range pkg.Provides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		p := pkg.Provides[key]
		rel.Provides = append(rel.Provides, xmlProvide{Type: p.Type, Name: p.Name, Extends: p.Extends})
	}
	for _, f := range pkg.Files {
		entry := xmlFile{
			Name:           f.Path,
			Role:           string(f.Role),
			BaseInstallDir: f.BaseInstallDir,
			InstallAs:      f.InstallAs,
			Platform:       f.Platform,
			MD5Sum:         f.MD5Sum,
		}
		for _, r := range f.Replacements {
			entry.Replacements = append(entry.Replacements, xmlReplace{From: r.From, To: r.To, Type: string(r.Kind)})
		}
		rel.Files = append(rel.Files, entry)
	}
	for _, c := range pkg.Changelog {
		doc.Changelog = append(doc.Changelog, xmlRelease{
			Version:  c.Version,
			Date:     c.Date,
			License:  c.License,
			State:    c.State,
			Notes:    c.Notes,
			Warnings: c.Warnings,
		})
	}

	out, err := xml.MarshalIndent(doc, "", " ")
	if err != nil {
		return nil, fmt.Errorf(messages.ParseMarshalFailedFmt, pkg.Name, err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func marshalDeps(deps []descriptor.Dependency) []xmlDep {
	out := make([]xmlDep, 0, len(deps))
	for _, d := range deps {
		entry := xmlDep{
			Type:    string(d.Type),
			Rel:     string(d.Relation),
			Version: d.Version,
			Channel: d.Channel,
			Name:    d.Name,
		}
		if d.Optional {
			entry.Optional = "yes"
		}
		out = append(out, entry)
	}
	return out
}

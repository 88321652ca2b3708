package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

const presentationPart = "ppt/presentation.xml"

// pkg indexes the parts of an Open Packaging Conventions archive by
// normalized part name.
type pkg struct {
	parts map[string]*zip.File
}

func openPackage(zr *zip.Reader) *pkg {
	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &pkg{parts: parts}
}

func (p *pkg) read(name string) ([]byte, error) {
	f, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %q not found in package", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %q: %w", name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read part %q: %w", name, err)
	}
	return raw, nil
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationshipsXML struct {
	Rels []relationship `xml:"Relationship"`
}

// relationships loads the _rels part for partPath. A missing rels part is
// not an error; parts without relationships simply have none.
func (p *pkg) relationships(partPath string) (map[string]relationship, error) {
	relsPath := path.Join(path.Dir(partPath), "_rels", path.Base(partPath)+".rels")
	if _, ok := p.parts[relsPath]; !ok {
		return map[string]relationship{}, nil
	}

	raw, err := p.read(relsPath)
	if err != nil {
		return nil, err
	}
	var parsed relationshipsXML
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse relationships %q: %w", relsPath, err)
	}

	out := make(map[string]relationship, len(parsed.Rels))
	for _, rel := range parsed.Rels {
		out[rel.ID] = rel
	}
	return out, nil
}

// resolveTarget resolves a relationship target (possibly "../media/...")
// against the directory of the source part.
func resolveTarget(partPath, target string) string {
	return path.Clean(path.Join(path.Dir(partPath), target))
}

// slidePaths returns slide part names in presentation order, which is the
// sldIdLst order, not the lexical order of the zip entries.
func (p *pkg) slidePaths() ([]string, error) {
	raw, err := p.read(presentationPart)
	if err != nil {
		return nil, err
	}

	relIDs, err := slideRelationshipIDs(raw)
	if err != nil {
		return nil, err
	}
	rels, err := p.relationships(presentationPart)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(relIDs))
	for _, rid := range relIDs {
		rel, ok := rels[rid]
		if !ok {
			return nil, fmt.Errorf("slide relationship %q not found", rid)
		}
		paths = append(paths, resolveTarget(presentationPart, rel.Target))
	}
	return paths, nil
}

// slideRelationshipIDs walks presentation.xml collecting the r:id of each
// sldId entry. The sldId element carries two attributes with local name
// "id"; the relationship one is namespaced.
func slideRelationshipIDs(raw []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var ids []string
	inList := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse presentation.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sldIdLst":
				inList = true
			case "sldId":
				if !inList {
					continue
				}
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" && attr.Name.Space != "" {
						ids = append(ids, attr.Value)
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "sldIdLst" {
				inList = false
			}
		}
	}
	return ids, nil
}

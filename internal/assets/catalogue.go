// Package assets provides the schema and DTD support files shipped next to
// imsmanifest.xml, and the ways of obtaining them.
package assets

import (
	"fmt"
	"path"
	"strings"

	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

// Asset is one support file, addressed by its slash-separated archive path.
type Asset struct {
	Path string
}

// Folder returns the logical folder of the asset ("" for root files).
func (a Asset) Folder() string {
	dir := path.Dir(a.Path)
	if dir == "." {
		return ""
	}
	return dir
}

// File is an asset paired with the bytes that go into the archive.
type File struct {
	Asset
	Data        []byte
	Placeholder bool
}

var catalogue12 = []string{
	"adlcp_rootv1p2.xsd",
	"ims_xml.xsd",
	"imscp_rootv1p1p2.xsd",
	"imsmd_rootv1p2p1.xsd",
}

var catalogue2004 = []string{
	"adlcp_v1p3.xsd",
	"adlnav_v1p3.xsd",
	"adlseq_v1p3.xsd",
	"datatypes.dtd",
	"imscp_v1p1.xsd",
	"imsss_v1p0.xsd",
	"imsss_v1p0auxresource.xsd",
	"imsss_v1p0control.xsd",
	"imsss_v1p0delivery.xsd",
	"imsss_v1p0limit.xsd",
	"imsss_v1p0objective.xsd",
	"imsss_v1p0random.xsd",
	"imsss_v1p0rollup.xsd",
	"imsss_v1p0seqrule.xsd",
	"imsss_v1p0util.xsd",
	"lom.xsd",
	"xml.xsd",
	"XMLSchema.dtd",
	"common/anyElement.xsd",
	"common/dataTypes.xsd",
	"common/elementNames.xsd",
	"common/elementTypes.xsd",
	"common/rootElement.xsd",
	"common/vocabTypes.xsd",
	"common/vocabValues.xsd",
	"extend/custom.xsd",
	"extend/strict.xsd",
	"unique/loose.xsd",
	"unique/strict.xsd",
	"vocab/adlmd_vocabv1p0.xsd",
	"vocab/custom.xsd",
	"vocab/loose.xsd",
	"vocab/strict.xsd",
}

// Catalogue returns the fixed support file list for v.
func Catalogue(v scorm.Version) []Asset {
	names := catalogue12
	if v == scorm.Version2004 {
		names = catalogue2004
	}
	out := make([]Asset, len(names))
	for i, n := range names {
		out[i] = Asset{Path: n}
	}
	return out
}

// Placeholder returns the stand-in content used when an asset cannot be
// retrieved, so the archive keeps every expected entry.
func Placeholder(p string) []byte {
	if strings.EqualFold(path.Ext(p), ".dtd") {
		return []byte(fmt.Sprintf("<!-- placeholder for %s: the original DTD could not be retrieved -->\n", p))
	}
	return []byte(fmt.Sprintf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!-- placeholder for %s: the original schema could not be retrieved -->\n", p))
}

package scorm

import (
	"bytes"
	"strconv"
	"text/template"
	"time"
)

// IdentifierPrefix starts every generated manifest identifier.
const IdentifierPrefix = "SCORM_"

// PackageIdentifier derives the manifest identifier from t at millisecond
// resolution.
func PackageIdentifier(t time.Time) string {
	return IdentifierPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// ManifestBuilder renders imsmanifest.xml documents.
type ManifestBuilder struct {
	// Now supplies the identifier timestamp.
	Now func() time.Time
}

// NewManifestBuilder returns a builder stamping identifiers with the wall clock.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{Now: time.Now}
}

type manifestData struct {
	Identifier  string
	Title       string
	Description string
	Duration    string
}

var manifestFuncs = template.FuncMap{"xml": EscapeXML}

var (
	manifest12Tmpl   = template.Must(template.New("manifest12").Funcs(manifestFuncs).Parse(manifest12Template))
	manifest2004Tmpl = template.Must(template.New("manifest2004").Funcs(manifestFuncs).Parse(manifest2004Template))
)

// Build renders the manifest for cfg. It never fails for a well-typed
// config; every user string goes through EscapeXML.
func (b *ManifestBuilder) Build(cfg PackageConfig) string {
	now := time.Now
	if b != nil && b.Now != nil {
		now = b.Now
	}

	data := manifestData{
		Identifier:  PackageIdentifier(now()),
		Title:       cfg.DisplayTitle(),
		Description: orDefault(cfg.Description, DefaultDescription),
	}

	tmpl := manifest12Tmpl
	data.Duration = orDefault(cfg.Duration, DefaultDuration12)
	if cfg.Version() == Version2004 {
		tmpl = manifest2004Tmpl
		data.Duration = orDefault(cfg.Duration, DefaultDuration2004)
	}

	var buf bytes.Buffer
	// Templates are parsed at init and only read string fields.
	if err := tmpl.Execute(&buf, data); err != nil {
		panic("scorm: executing manifest template: " + err.Error())
	}
	return buf.String()
}

const manifest12Template = `<?xml version="1.0" standalone="no" ?>
<manifest identifier="{{.Identifier}}" version="1.0"
  xmlns="http://www.imsproject.org/xsd/imscp_rootv1p1p2"
  xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_rootv1p2"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
  xsi:schemaLocation="http://www.imsproject.org/xsd/imscp_rootv1p1p2 imscp_rootv1p1p2.xsd
                      http://www.imsglobal.org/xsd/imsmd_rootv1p2p1 imsmd_rootv1p2p1.xsd
                      http://www.adlnet.org/xsd/adlcp_rootv1p2 adlcp_rootv1p2.xsd">

  <metadata>
    <schema>ADL SCORM</schema>
    <schemaversion>1.2</schemaversion>
    <lom xmlns="http://www.imsglobal.org/xsd/imsmd_rootv1p2p1">
      <general>
        <title><langstring>{{xml .Title}}</langstring></title>
        <description><langstring>{{xml .Description}}</langstring></description>
      </general>
      <educational>
        <typicallearningtime>
          <datetime>{{xml .Duration}}</datetime>
        </typicallearningtime>
      </educational>
    </lom>
  </metadata>

  <organizations default="default_org">
    <organization identifier="default_org">
      <title>{{xml .Title}}</title>
      <item identifier="item_1" identifierref="resource_1" isvisible="true">
        <title>{{xml .Title}}</title>
      </item>
    </organization>
  </organizations>

  <resources>
    <resource identifier="resource_1" type="webcontent" adlcp:scormtype="sco" href="index.html">
      <file href="index.html" />
    </resource>
  </resources>
</manifest>
`

const manifest2004Template = `<?xml version="1.0" encoding="UTF-8" standalone="no" ?>
<manifest identifier="{{.Identifier}}" version="1"
  xmlns="http://www.imsglobal.org/xsd/imscp_v1p1"
  xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_v1p3"
  xmlns:adlseq="http://www.adlnet.org/xsd/adlseq_v1p3"
  xmlns:adlnav="http://www.adlnet.org/xsd/adlnav_v1p3"
  xmlns:imsss="http://www.imsglobal.org/xsd/imsss"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
  xsi:schemaLocation="http://www.imsglobal.org/xsd/imscp_v1p1 imscp_v1p1.xsd
                      http://www.adlnet.org/xsd/adlcp_v1p3 adlcp_v1p3.xsd
                      http://www.adlnet.org/xsd/adlseq_v1p3 adlseq_v1p3.xsd
                      http://www.adlnet.org/xsd/adlnav_v1p3 adlnav_v1p3.xsd
                      http://www.imsglobal.org/xsd/imsss imsss_v1p0.xsd">

  <metadata>
    <schema>ADL SCORM</schema>
    <schemaversion>2004 4th Edition</schemaversion>
    <lom xmlns="http://ltsc.ieee.org/xsd/LOM">
      <general>
        <title><string language="en-US">{{xml .Title}}</string></title>
        <description><string language="en-US">{{xml .Description}}</string></description>
      </general>
      <educational>
        <typicalLearningTime>
          <duration>{{xml .Duration}}</duration>
        </typicalLearningTime>
      </educational>
    </lom>
  </metadata>

  <organizations default="default_org">
    <organization identifier="default_org">
      <title>{{xml .Title}}</title>
      <item identifier="item_1" identifierref="resource_1">
        <title>{{xml .Title}}</title>
        <imsss:sequencing>
          <imsss:objectives>
            <imsss:primaryObjective objectiveID="completionobj" satisfiedByMeasure="false" />
          </imsss:objectives>
        </imsss:sequencing>
      </item>
    </organization>
  </organizations>

  <resources>
    <resource identifier="resource_1" type="webcontent" adlcp:scormType="sco" href="index.html">
      <file href="index.html" />
    </resource>
  </resources>
</manifest>
`

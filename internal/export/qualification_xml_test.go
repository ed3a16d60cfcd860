package export

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeXML(t *testing.T, raw []byte) xmlPersonList {
	t.Helper()
	var got xmlPersonList
	require.NoError(t, xml.Unmarshal(raw, &got))
	return got
}

func TestEncodeQualificationXML(t *testing.T) {
	rep := buildReport(t)

	var buf bytes.Buffer
	require.NoError(t, EncodeQualificationXML(&buf, rep, XMLConfig{}))
	require.True(t, strings.HasPrefix(buf.String(), xml.Header))

	got := decodeXML(t, buf.Bytes())
	assert.Equal(t, rep.ID.String(), got.ReportID)
	assert.Equal(t, "2025-03-01T12:00:00Z", got.GeneratedAt)
	require.Len(t, got.People, 3)

	cj := got.People[0]
	assert.Equal(t, "p-cj", cj.PersonID)
	assert.Equal(t, "CJ Test", cj.Name)
	assert.Nil(t, cj.EmailList, "phone channels are not e-mails")
	require.NotNil(t, cj.TitleList)
	require.Len(t, cj.TitleList.Titles, 1)
	assert.False(t, cj.TitleList.Titles[0].Qualified)
	require.NotNil(t, cj.TitleList.Titles[0].MissingSkills)
	assert.Equal(t, []string{"Driving"}, cj.TitleList.Titles[0].MissingSkills.Skills)
	assert.Nil(t, cj.CertList, "certifications are opt-in")
	require.NotNil(t, cj.CustomInfo)
	assert.Equal(t, "qualified_titles", cj.CustomInfo.Fields[0].FieldName)
	assert.Equal(t, "", cj.CustomInfo.Fields[0].FieldValue)

	sierra := got.People[1]
	require.NotNil(t, sierra.EmailList)
	assert.Equal(t, []string{"sierra@example.com"}, sierra.EmailList.Emails)
	assert.Nil(t, sierra.TitleList.Titles[0].MissingSkills)
	assert.Equal(t, "Police Officer | Volunteer", sierra.CustomInfo.Fields[0].FieldValue)

	adam := got.People[2]
	assert.Nil(t, adam.TitleList)
}

func TestWriteQualificationXMLWithCertifications(t *testing.T) {
	out := filepath.Join(t.TempDir(), "qualifications.xml")
	require.NoError(t, WriteQualificationXML(out, buildReport(t), XMLConfig{
		FieldName:             "roster_titles",
		IncludeCertifications: true,
	}))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	got := decodeXML(t, raw)

	cj := got.People[0]
	assert.Equal(t, "roster_titles", cj.CustomInfo.Fields[0].FieldName)
	require.NotNil(t, cj.CertList)
	require.Len(t, cj.CertList.Certs, 2)
	assert.Equal(t, xmlCert{Status: "Active", Course: "FRFA", IssuedOn: "2024-01-15"}, cj.CertList.Certs[0])
	assert.Equal(t, xmlCert{Status: "Expired", Course: "Basket Weaving", ExpiresOn: "2023-12-31"}, cj.CertList.Certs[1])
}

func TestWriteQualificationXMLBadPath(t *testing.T) {
	err := WriteQualificationXML(filepath.Join(t.TempDir(), "missing", "out.xml"), buildReport(t), XMLConfig{})
	require.Error(t, err)
}

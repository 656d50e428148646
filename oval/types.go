package oval

import (
	"encoding/xml"
)

const (
	nsDefinitions = "http://oval.mitre.org/XMLSchema/oval-definitions-5"
	nsCommon      = "http://oval.mitre.org/XMLSchema/oval-common-5"
	nsLinux       = "http://oval.mitre.org/XMLSchema/oval-definitions-5#linux"
)

// DefinitionModel is a flat registry of definitions, tests, objects and
// states cross-referenced by id.
type DefinitionModel struct {
	XMLName     xml.Name    `xml:"oval_definitions" json:"-"`
	Xmlns       string      `xml:"xmlns,attr" json:"-"`
	XmlnsOval   string      `xml:"xmlns:oval,attr" json:"-"`
	XmlnsLinux  string      `xml:"xmlns:linux-def,attr" json:"-"`
	Generator   Generator   `xml:"generator"`
	Definitions Definitions `xml:"definitions" json:",omitempty"`
	Tests       Tests       `xml:"tests" json:",omitempty"`
	Objects     Objects     `xml:"objects" json:",omitempty"`
	States      States      `xml:"states" json:",omitempty"`
}

type Generator struct {
	ProductName    string `xml:"oval:product_name"`
	ProductVersion string `xml:"oval:product_version,omitempty" json:",omitempty"`
	SchemaVersion  string `xml:"oval:schema_version"`
	Timestamp      string `xml:"oval:timestamp"`
}

type Definitions struct {
	Definitions []Definition `xml:"definition" json:",omitempty"`
}

type Definition struct {
	ID       string   `xml:"id,attr"`
	Version  int      `xml:"version,attr"`
	Class    string   `xml:"class,attr"`
	Metadata Metadata `xml:"metadata"`
	Criteria Criteria `xml:"criteria"`
}

type Metadata struct {
	Title       string      `xml:"title"`
	References  []Reference `xml:"reference" json:",omitempty"`
	Description string      `xml:"description"`
}

type Reference struct {
	Source string `xml:"source,attr"`
	RefID  string `xml:"ref_id,attr"`
	RefURL string `xml:"ref_url,attr,omitempty" json:",omitempty"`
}

type Criteria struct {
	Operator   string      `xml:"operator,attr,omitempty" json:",omitempty"`
	Criterions []Criterion `xml:"criterion" json:",omitempty"`
	Criterias  []Criteria  `xml:"criteria" json:",omitempty"`
}

type Criterion struct {
	TestRef string `xml:"test_ref,attr"`
	Comment string `xml:"comment,attr"`
}

type Tests struct {
	RpminfoTests []RpminfoTest `xml:"linux-def:rpminfo_test" json:",omitempty"`
}

type RpminfoTest struct {
	ID             string    `xml:"id,attr"`
	Version        int       `xml:"version,attr"`
	Check          string    `xml:"check,attr"`
	CheckExistence string    `xml:"check_existence,attr"`
	Comment        string    `xml:"comment,attr,omitempty" json:",omitempty"`
	Object         ObjectRef `xml:"linux-def:object"`
	State          StateRef  `xml:"linux-def:state"`
}

type ObjectRef struct {
	ObjectRef string `xml:"object_ref,attr"`
}

type StateRef struct {
	StateRef string `xml:"state_ref,attr"`
}

type Objects struct {
	RpminfoObjects []RpminfoObject `xml:"linux-def:rpminfo_object" json:",omitempty"`
}

type RpminfoObject struct {
	ID      string `xml:"id,attr"`
	Version int    `xml:"version,attr"`
	Name    string `xml:"linux-def:name"`
}

type States struct {
	RpminfoStates []RpminfoState `xml:"linux-def:rpminfo_state" json:",omitempty"`
}

type RpminfoState struct {
	ID       string  `xml:"id,attr"`
	Version  int     `xml:"version,attr"`
	Operator string  `xml:"operator,attr,omitempty" json:",omitempty"`
	Comment  string  `xml:"comment,attr,omitempty" json:",omitempty"`
	Name     *Entity `xml:"linux-def:name,omitempty" json:",omitempty"`
	Evr      *Entity `xml:"linux-def:evr,omitempty" json:",omitempty"`
}

// Entity is a state entity carrying a value and how it is compared.
type Entity struct {
	Text      string `xml:",chardata"`
	Datatype  string `xml:"datatype,attr,omitempty" json:",omitempty"`
	Operation string `xml:"operation,attr,omitempty" json:",omitempty"`
}

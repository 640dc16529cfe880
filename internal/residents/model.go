package residents

// Disease is a canonical condition label. Values match the disease tags used
// in menu catalogs and nutrient standard tables.
type Disease string

const (
	DiseaseDysphagia    Disease = "연하곤란"
	DiseaseHypertension Disease = "고혈압"
	DiseaseKidney       Disease = "신장"
	DiseaseDiabetes     Disease = "당뇨"
	DiseaseNone         Disease = "none"
)

// BucketOrder is the order disease buckets are reported and exported in.
var BucketOrder = []Disease{DiseaseDiabetes, DiseaseHypertension, DiseaseKidney, DiseaseDysphagia}

// Flags are the binary condition columns of a resident row.
type Flags struct {
	Diabetes     bool `json:"diabetes"`
	Hypertension bool `json:"hypertension"`
	Kidney       bool `json:"kidney"`
	Dysphagia    bool `json:"dysphagia"`
}

// Body holds the metrics used for energy requirement estimation. Values are
// kept as entered so a malformed cell surfaces as a per-resident target error.
type Body struct {
	Sex      string `json:"sex"`
	Age      string `json:"age"`
	WeightKg string `json:"weightKg"`
	HeightCm string `json:"heightCm"`
	Activity string `json:"activity"`
}

// Resident is one row of the resident table.
type Resident struct {
	ID       string `json:"id"`
	Flags    Flags  `json:"flags"`
	Body     Body   `json:"body"`
	RiceType string `json:"riceType"`
	SideType string `json:"sideType"`
}

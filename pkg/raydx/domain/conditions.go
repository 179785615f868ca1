package domain

// RegionType the anatomical category of a radiograph. It selects the condition vocabulary
// all backends score against.
type RegionType string

const (
	RegionChest       RegionType = "chest"
	RegionBone        RegionType = "bone"
	RegionDental      RegionType = "dental"
	RegionSpine       RegionType = "spine"
	RegionSkull       RegionType = "skull"
	RegionAbdomen     RegionType = "abdomen"
	RegionPelvis      RegionType = "pelvis"
	RegionExtremities RegionType = "extremities"
	RegionGeneral     RegionType = "general"
)

// RegionDisplayNames human-readable names for all supported region types.
var RegionDisplayNames = map[RegionType]string{
	RegionChest:       "Chest X-ray Analysis",
	RegionBone:        "Bone and Joint X-ray Analysis",
	RegionDental:      "Dental X-ray Analysis",
	RegionSpine:       "Spinal X-ray Analysis",
	RegionSkull:       "Skull X-ray Analysis",
	RegionAbdomen:     "Abdominal X-ray Analysis",
	RegionPelvis:      "Pelvic X-ray Analysis",
	RegionExtremities: "Extremities X-ray Analysis",
	RegionGeneral:     "General X-ray Analysis",
}

// ConditionList an ordered sequence of condition names for a given region type. The order
// defines the positional alignment with model output vectors, so it must never be reshuffled.
type ConditionList struct {
	Region     RegionType
	Conditions []string
}

// ConditionCatalog maps a region type to its diagnosable conditions. Built once per process
// and read-only thereafter, so it is safe to share across concurrent analyses.
type ConditionCatalog struct {
	conditions map[RegionType][]string
}

func NewConditionCatalog() *ConditionCatalog {
	return &ConditionCatalog{
		conditions: map[RegionType][]string{
			RegionChest: {
				"Normal", "Pneumonia", "Pneumothorax", "Cardiomegaly",
				"Atelectasis", "Pleural Effusion", "Consolidation",
				"Pulmonary Edema", "Tuberculosis", "Lung Mass",
			},
			RegionBone: {
				"Normal", "Fracture", "Arthritis", "Osteoporosis",
				"Bone Lesion", "Joint Dislocation", "Bone Infection",
				"Tumor", "Degenerative Changes", "Trauma",
			},
			RegionDental: {
				"Normal", "Caries", "Periodontal Disease", "Root Canal",
				"Dental Implant", "Abscess", "Cyst", "Impacted Tooth",
				"Bone Loss", "Dental Restoration",
			},
			RegionSpine: {
				"Normal", "Scoliosis", "Herniated Disc", "Spinal Fracture",
				"Degenerative Changes", "Spinal Stenosis", "Spondylolisthesis",
				"Spinal Tumor", "Infection", "Trauma",
			},
		},
	}
}

// ConditionsFor returns the condition vocabulary for the given region type. Unknown region
// types resolve to the chest list: every downstream component indexes model outputs
// positionally against the returned list, so there must always be one.
func (c *ConditionCatalog) ConditionsFor(region RegionType) ConditionList {
	conditions, ok := c.conditions[region]
	if !ok {
		conditions = c.conditions[RegionChest]
	}
	return ConditionList{Region: region, Conditions: conditions}
}

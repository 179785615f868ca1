package catalog

import (
	"sort"

	"raydx.com/raydx/pkg/raydx/domain"
)

// DatasetInfo describes an open radiograph dataset usable for training or evaluating the
// supervised classifier tier.
type DatasetInfo struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Size        int               `json:"size"`
	Region      domain.RegionType `json:"xray_type"`
	Source      string            `json:"source"`
	License     string            `json:"license"`
	DownloadURL string            `json:"download_url"`
	PaperURL    string            `json:"paper_url"`
}

// DatasetCatalog is a static table of well-known public datasets, keyed by region.
type DatasetCatalog struct {
	datasets []DatasetInfo
}

func NewDatasetCatalog() *DatasetCatalog {
	return &DatasetCatalog{
		datasets: []DatasetInfo{
			{
				ID:          "nih_chest",
				Name:        "NIH Chest X-ray Dataset",
				Description: "112,120 frontal-view chest X-ray images with disease labels",
				Size:        112120,
				Region:      domain.RegionChest,
				Source:      "NIH Clinical Center",
				License:     "CC BY 4.0",
				DownloadURL: "https://nihcc.app.box.com/v/ChestXray-NIHCC",
				PaperURL:    "https://arxiv.org/abs/1705.02315",
			},
			{
				ID:          "chexpert",
				Name:        "CheXpert",
				Description: "224,316 chest X-ray images from Stanford Hospital",
				Size:        224316,
				Region:      domain.RegionChest,
				Source:      "Stanford University",
				License:     "CC BY 4.0",
				DownloadURL: "https://stanfordmlgroup.github.io/competitions/chexpert/",
				PaperURL:    "https://arxiv.org/abs/1901.07031",
			},
			{
				ID:          "mimic_cxr",
				Name:        "MIMIC-CXR",
				Description: "377,110 chest X-ray images from Beth Israel Deaconess Medical Center",
				Size:        377110,
				Region:      domain.RegionChest,
				Source:      "MIT",
				License:     "PhysioNet Credentialed Health Data License",
				DownloadURL: "https://physionet.org/content/mimic-cxr/",
				PaperURL:    "https://www.nature.com/articles/s41597-019-0322-0",
			},
			{
				ID:          "padchest",
				Name:        "PadChest",
				Description: "160,868 chest X-ray images from Hospital San Juan de Alicante",
				Size:        160868,
				Region:      domain.RegionChest,
				Source:      "Hospital San Juan de Alicante",
				License:     "CC BY 4.0",
				DownloadURL: "https://bimcv.cipf.es/bimcv-projects/padchest/",
				PaperURL:    "https://arxiv.org/abs/1901.07441",
			},
			{
				ID:          "vindr_cxr",
				Name:        "VinDr-CXR",
				Description: "18,000 chest X-ray images from Vietnamese hospitals",
				Size:        18000,
				Region:      domain.RegionChest,
				Source:      "VinBigData",
				License:     "CC BY 4.0",
				DownloadURL: "https://www.kaggle.com/c/vinbigdata-chest-xray-abnormalities-detection",
				PaperURL:    "https://arxiv.org/abs/2012.15029",
			},
			{
				ID:          "mura",
				Name:        "MURA",
				Description: "40,561 bone X-ray images for abnormality detection",
				Size:        40561,
				Region:      domain.RegionBone,
				Source:      "Stanford University",
				License:     "CC BY 4.0",
				DownloadURL: "https://stanfordmlgroup.github.io/competitions/mura/",
				PaperURL:    "https://arxiv.org/abs/1712.06957",
			},
			{
				ID:          "bone_age",
				Name:        "Bone Age Assessment",
				Description: "12,611 hand X-ray images for bone age assessment",
				Size:        12611,
				Region:      domain.RegionBone,
				Source:      "RSNA",
				License:     "CC BY 4.0",
				DownloadURL: "https://www.kaggle.com/c/rsna-bone-age",
				PaperURL:    "https://pubs.rsna.org/doi/10.1148/radiol.2017170236",
			},
			{
				ID:          "dental_xray",
				Name:        "Dental X-ray Dataset",
				Description: "1,000+ dental X-ray images for tooth detection",
				Size:        1000,
				Region:      domain.RegionDental,
				Source:      "Various",
				License:     "CC BY 4.0",
				DownloadURL: "https://github.com/DeepDental/DentalXrayDataset",
				PaperURL:    "https://ieeexplore.ieee.org/document/9093280",
			},
		},
	}
}

// DatasetsFor returns the datasets covering the given region. An unrecognized region yields
// the whole table, since any dataset can contribute to a general-purpose model.
func (d *DatasetCatalog) DatasetsFor(region domain.RegionType) []DatasetInfo {
	var matched []DatasetInfo
	for _, dataset := range d.datasets {
		if dataset.Region == region {
			matched = append(matched, dataset)
		}
	}
	if len(matched) == 0 {
		matched = append(matched, d.datasets...)
	}
	return matched
}

func (d *DatasetCatalog) AllDatasets() []DatasetInfo {
	datasets := make([]DatasetInfo, len(d.datasets))
	copy(datasets, d.datasets)
	return datasets
}

func (d *DatasetCatalog) Dataset(id string) (DatasetInfo, bool) {
	for _, dataset := range d.datasets {
		if dataset.ID == id {
			return dataset, true
		}
	}
	return DatasetInfo{}, false
}

// TotalImageCount sums the sizes of every known dataset.
func (d *DatasetCatalog) TotalImageCount() int {
	total := 0
	for _, dataset := range d.datasets {
		total += dataset.Size
	}
	return total
}

// Regions lists every region with at least one dataset, sorted for stable output.
func (d *DatasetCatalog) Regions() []domain.RegionType {
	seen := make(map[domain.RegionType]bool)
	var regions []domain.RegionType
	for _, dataset := range d.datasets {
		if !seen[dataset.Region] {
			seen[dataset.Region] = true
			regions = append(regions, dataset.Region)
		}
	}
	sort.Slice(regions, func(i, j int) bool {
		return regions[i] < regions[j]
	})
	return regions
}

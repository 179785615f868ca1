package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"raydx.com/raydx/pkg/common"
	"raydx.com/raydx/pkg/raydx/api"
	"raydx.com/raydx/pkg/raydx/domain"
)

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	raydx := api.NewAPI(config)
	rl, err := readline.New("raydx> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	fmt.Println("commands: analyze <path> [region], conditions <region>, datasets <region>, explain <condition>, regions")
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "analyze":
			if len(fields) < 2 {
				fmt.Println("usage: analyze <path> [region]")
				continue
			}
			region := domain.RegionChest
			if len(fields) > 2 {
				region = domain.RegionType(fields[2])
			}
			if !common.IsImageFormat(fields[1]) {
				fmt.Println("unsupported image format (want .jpg, .jpeg or .png)")
				continue
			}
			result, err := raydx.Analyze(fields[1], region, nil)
			if err != nil {
				fmt.Println(err)
				continue
			}
			printResult(result)
		case "conditions":
			if len(fields) < 2 {
				fmt.Println("usage: conditions <region>")
				continue
			}
			conditions := raydx.ConditionsFor(domain.RegionType(fields[1]))
			fmt.Println(strings.Join(conditions.Conditions, ", "))
		case "datasets":
			if len(fields) < 2 {
				fmt.Println("usage: datasets <region>")
				continue
			}
			for _, dataset := range raydx.DatasetsFor(domain.RegionType(fields[1])) {
				fmt.Printf("%s: %s (%d images, %s)\n", dataset.Name, dataset.Description, dataset.Size, dataset.License)
			}
		case "explain":
			if len(fields) < 2 {
				fmt.Println("usage: explain <condition>")
				continue
			}
			summary, err := raydx.ExplainCondition(strings.Join(fields[1:], " "))
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println(summary)
		case "regions":
			for region, displayName := range raydx.Regions() {
				fmt.Printf("%s: %s\n", region, displayName)
			}
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
	return nil
}

func printResult(result *domain.AnalysisResult) {
	fmt.Printf("Primary diagnosis: %s (%.1f%% confidence, via %s)\n",
		result.Diagnosis.PrimaryDiagnosis,
		result.Diagnosis.OverallConfidence*100,
		result.Diagnosis.ModelName)
	scores, err := json.MarshalIndent(result.Diagnosis.ConfidenceScores, "", "  ")
	if err == nil {
		fmt.Printf("Confidence scores: %s\n", scores)
	}
	fmt.Printf("Image quality: %s, reliability: %s\n",
		result.ConfidenceMetrics.ImageQuality,
		result.ConfidenceMetrics.AnalysisReliability)
	if len(result.DifferentialDiagnoses) > 0 {
		fmt.Printf("Differentials: %s\n", strings.Join(result.DifferentialDiagnoses, "; "))
	}
	for _, recommendation := range result.ClinicalRecommendations {
		fmt.Println("-", recommendation)
	}
	fmt.Println()
	fmt.Println(result.MedicalReport.Report)
}

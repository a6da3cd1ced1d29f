package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cognitive-robots/highd-dataset-tools/internal/convoy"
	"github.com/cognitive-robots/highd-dataset-tools/internal/features"
)

const (
	outputCreateErrorTemplateConstant = "unable to create %s: %w"
	outputWriteErrorTemplateConstant  = "unable to write %s: %w"
)

// WriteSeriesCSV stores a derived feature series as {base}.csv in the output directory.
func WriteSeriesCSV(outputDirectoryPath string, scenario convoy.Scenario, series features.Series) (string, error) {
	outputFilePath := filepath.Join(outputDirectoryPath, ScenarioBaseName(scenario)+seriesFileSuffixConstant)

	outputFile, createError := os.Create(outputFilePath)
	if createError != nil {
		return "", fmt.Errorf(outputCreateErrorTemplateConstant, outputFilePath, createError)
	}
	defer outputFile.Close()

	csvWriter := csv.NewWriter(outputFile)

	if writeError := csvWriter.Write(series.Columns); writeError != nil {
		return "", fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, writeError)
	}

	for rowIndex, row := range series.Rows {
		record := make([]string, 0, len(series.Columns))
		if series.IncludesTimeIndex {
			record = append(record, strconv.Itoa(rowIndex))
		}
		for _, value := range row {
			record = append(record, strconv.FormatFloat(value, 'g', -1, 64))
		}

		if writeError := csvWriter.Write(record); writeError != nil {
			return "", fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, writeError)
		}
	}

	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return "", fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, flushError)
	}

	return outputFilePath, nil
}

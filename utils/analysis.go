package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// RunRecord is one row of the run analysis log.
type RunRecord struct {
	Name           string
	Architecture   []int
	Epochs         int
	LearningRate   float64
	Seed           uint64
	FinalLoss      float64
	Accuracy       float64
	SecondsToTrain float64
}

var analysisHeaders = []string{
	"Name", "Architecture", "Epochs", "LR", "Seed", "FinalLoss", "Accuracy", "SecondsToTrain",
}

func (r RunRecord) fields() []string {
	return []string{
		r.Name,
		FormatArchitecture(r.Architecture),
		strconv.Itoa(r.Epochs),
		strconv.FormatFloat(r.LearningRate, 'f', 4, 64),
		strconv.FormatUint(r.Seed, 10),
		strconv.FormatFloat(r.FinalLoss, 'f', 6, 64),
		strconv.FormatFloat(r.Accuracy, 'f', 5, 64),
		strconv.FormatFloat(r.SecondsToTrain, 'f', 3, 64),
	}
}

// AppendRunRecord appends rec to the CSV file at path, writing the header
// row first when the file does not exist yet.
func AppendRunRecord(path string, rec RunRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("creating analysis directory: %w", err)
	}
	var needsHeaders bool
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeaders = true
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	w := csv.NewWriter(file)
	if needsHeaders {
		if err := w.Write(analysisHeaders); err != nil {
			file.Close()
			return fmt.Errorf("writing csv headers: %w", err)
		}
	}
	if err := w.Write(rec.fields()); err != nil {
		file.Close()
		return fmt.Errorf("writing csv record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("error writing csv: %w", err)
	}
	return file.Close()
}

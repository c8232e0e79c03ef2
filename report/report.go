// Package report renders classification results as terminal tables.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-age/algorithms/common"
	"github.com/RyanBlaney/sonido-age/classifier"
	"github.com/RyanBlaney/sonido-age/corpus"
	"github.com/RyanBlaney/sonido-age/features"
)

func percent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 2, 64) + "%"
}

// Confusion renders the confusion matrix of one result, actual labels as rows
// and guessed labels as columns.
func Confusion(r *classifier.Result) string {
	labels := r.Labels()

	headers := make([]string, 0, len(labels)+1)
	headers = append(headers, "actual \\ guess")
	aligns := []columnAlignment{alignLeft}
	for _, l := range labels {
		headers = append(headers, l)
		aligns = append(aligns, alignRight)
	}

	rows := make([][]string, 0, len(labels))
	for _, actual := range labels {
		row := []string{actual}
		for _, guess := range labels {
			row = append(row, strconv.Itoa(r.Confusion[actual][guess]))
		}
		rows = append(rows, row)
	}

	title := fmt.Sprintf("Predictions on %s samples (%s)", r.Partition, r.Options)
	return renderTable(title, headers, rows, aligns)
}

// Summary renders correct counts and accuracy per partition of a run
func Summary(rep *classifier.Report) string {
	headers := []string{"Partition", "Correct", "Failed", "Accuracy"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight}

	var rows [][]string
	for _, r := range []*classifier.Result{rep.Train, rep.Eval} {
		if r == nil {
			continue
		}
		rows = append(rows, []string{
			string(r.Partition),
			fmt.Sprintf("%d/%d", r.Correct, r.Total),
			strconv.Itoa(r.Failed),
			percent(r.Accuracy()),
		})
	}

	title := fmt.Sprintf("Run %s (%s, %s)", rep.RunID, rep.Options, rep.Duration.Round(time.Millisecond))
	return renderTable(title, headers, rows, aligns)
}

// Run renders the summary followed by every partition's confusion matrix
func Run(rep *classifier.Report) string {
	var b strings.Builder
	b.WriteString(Summary(rep))
	for _, r := range []*classifier.Result{rep.Train, rep.Eval} {
		if r == nil {
			continue
		}
		b.WriteString("\n")
		b.WriteString(Confusion(r))
	}
	return b.String()
}

// Sweep renders one row per sweep cell, grouped by k
func Sweep(reports []*classifier.Report) string {
	headers := []string{"k", "Normalized", "Gain weight", "Gain threshold", "Correct", "Accuracy"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(reports))
	for _, rep := range reports {
		if rep.Eval == nil {
			continue
		}
		opts := rep.Options
		rows = append(rows, []string{
			strconv.Itoa(opts.K),
			yesNo(opts.Normalized),
			yesNo(opts.UseGainWeight),
			strconv.FormatFloat(opts.GainThreshold, 'g', -1, 64),
			fmt.Sprintf("%d/%d", rep.Eval.Correct, rep.Eval.Total),
			percent(rep.Eval.Accuracy()),
		})
	}

	return renderTable("Parameter sweep on test samples", headers, rows, aligns)
}

// Trials renders the eval accuracy of every sweep cell across repeated
// splits. Each trial must hold the cells in the same order.
func Trials(trials [][]*classifier.Report) string {
	if len(trials) == 0 {
		return renderTable("Parameter sweep on test samples", nil, nil, nil)
	}

	headers := []string{"k", "Normalized", "Gain weight", "Gain threshold"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight}
	for i := range trials {
		headers = append(headers, fmt.Sprintf("Trial %d", i+1))
		aligns = append(aligns, alignRight)
	}
	headers = append(headers, "Mean")
	aligns = append(aligns, alignRight)

	rows := make([][]string, 0, len(trials[0]))
	for cell, first := range trials[0] {
		opts := first.Options
		row := []string{
			strconv.Itoa(opts.K),
			yesNo(opts.Normalized),
			yesNo(opts.UseGainWeight),
			strconv.FormatFloat(opts.GainThreshold, 'g', -1, 64),
		}

		accuracies := make([]float64, 0, len(trials))
		for _, reports := range trials {
			if cell >= len(reports) || reports[cell].Eval == nil {
				row = append(row, "-")
				continue
			}
			acc := reports[cell].Eval.Accuracy()
			accuracies = append(accuracies, acc)
			row = append(row, percent(acc))
		}
		if len(accuracies) == 0 {
			row = append(row, "-")
		} else {
			row = append(row, percent(common.Mean(accuracies)))
		}
		rows = append(rows, row)
	}

	title := fmt.Sprintf("Parameter sweep on test samples over %d splits", len(trials))
	return renderTable(title, headers, rows, aligns)
}

// Split renders how many clips of each label went to each partition
func Split(quotas []corpus.Quota) string {
	headers := []string{"Label", "Train", "Eval"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight}

	rows := make([][]string, 0, len(quotas))
	for _, q := range quotas {
		rows = append(rows, []string{q.Label, strconv.Itoa(q.Train), strconv.Itoa(q.Eval)})
	}
	return renderTable("Clips per label", headers, rows, aligns)
}

// Extraction renders the pool outcome and every skipped clip
func Extraction(er *features.ExtractionReport) string {
	headers := []string{"Clip", "Partition", "Reason"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(er.Skipped))
	for _, ce := range er.Skipped {
		rows = append(rows, []string{ce.ClipID, string(ce.Partition), ce.Err.Error()})
	}

	title := fmt.Sprintf("Extracted %d of %d clips in %s, skipped %d",
		er.Extracted, er.Submitted, er.Duration.Round(time.Millisecond), er.SkippedCount())
	return renderTable(title, headers, rows, aligns)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

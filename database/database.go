package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/nithin2k5/yoloGenerator/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Querier is satisfied by *sql.DB and *sql.Tx
type Querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// DatasetStats is the cheap per-dataset summary shown next to the dataset list.
type DatasetStats struct {
	DatasetID            string         `json:"dataset_id"`
	Name                 string         `json:"name"`
	TotalImages          int            `json:"total_images"`
	AnnotatedImages      int            `json:"annotated_images"`
	UnannotatedImages    int            `json:"unannotated_images"`
	TotalClasses         int            `json:"total_classes"`
	ClassCounts          map[string]int `json:"class_counts"`
	SplitCounts          map[string]int `json:"split_counts"`
	CompletionPercentage float64        `json:"completion_percentage"`
}

// GetDatasetStats aggregates image, split and per-class box counts for a dataset.
// The dataset row itself must already have been loaded by the caller.
func GetDatasetStats(db Querier, dataset *models.Dataset) (DatasetStats, error) {
	classes := dataset.ClassNames()
	stats := DatasetStats{
		DatasetID:    dataset.ID,
		Name:         dataset.Name,
		TotalClasses: len(classes),
		ClassCounts:  make(map[string]int, len(classes)),
		SplitCounts:  make(map[string]int),
	}
	for _, c := range classes {
		stats.ClassCounts[c] = 0
	}

	countSQL, args, err := psql.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN annotated THEN 1 ELSE 0 END), 0)",
	).From("dataset_images").
		Where(sq.Eq{"dataset_id": dataset.ID}).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("failed to build SQL query for image counts: %w", err)
	}
	if err := db.QueryRow(countSQL, args...).Scan(&stats.TotalImages, &stats.AnnotatedImages); err != nil {
		return stats, fmt.Errorf("failed to query image counts for dataset %s: %w", dataset.ID, err)
	}
	stats.UnannotatedImages = stats.TotalImages - stats.AnnotatedImages
	if stats.TotalImages > 0 {
		stats.CompletionPercentage = float64(stats.AnnotatedImages) / float64(stats.TotalImages) * 100
	}

	splitSQL, args, err := psql.Select("split", "COUNT(*)").
		From("dataset_images").
		Where(sq.And{sq.Eq{"dataset_id": dataset.ID}, sq.NotEq{"split": nil}}).
		GroupBy("split").
		OrderBy("split").
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("failed to build SQL query for split counts: %w", err)
	}
	rows, err := db.Query(splitSQL, args...)
	if err != nil {
		return stats, fmt.Errorf("failed to query split counts for dataset %s: %w", dataset.ID, err)
	}
	for rows.Next() {
		var split string
		var count int
		if err := rows.Scan(&split, &count); err != nil {
			rows.Close()
			return stats, fmt.Errorf("failed to scan split count: %w", err)
		}
		stats.SplitCounts[split] = count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return stats, fmt.Errorf("error iterating split counts: %w", err)
	}
	rows.Close()

	boxSQL, args, err := psql.Select("boxes").
		From("annotations").
		Where(sq.Eq{"dataset_id": dataset.ID}).
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("failed to build SQL query for annotation boxes: %w", err)
	}
	rows, err = db.Query(boxSQL, args...)
	if err != nil {
		return stats, fmt.Errorf("failed to query annotation boxes for dataset %s: %w", dataset.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return stats, fmt.Errorf("failed to scan annotation boxes: %w", err)
		}
		var boxes []models.Box
		if err := json.Unmarshal(raw, &boxes); err != nil {
			// a broken row should not hide the rest of the counts
			continue
		}
		for _, b := range boxes {
			if _, known := stats.ClassCounts[b.ClassName]; known {
				stats.ClassCounts[b.ClassName]++
			}
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("error iterating annotation boxes: %w", err)
	}

	return stats, nil
}

// Package export writes session summaries as parquet for offline analysis.
package export

import (
	"fmt"

	localsource "github.com/xitongsys/parquet-go-source/local"
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/pkg"
)

const writerParallelism = 4

type sessionRow struct {
	RecordID        string  `parquet:"name=record_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date            string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DurationMinutes int32   `parquet:"name=duration_minutes, type=INT32"`
	Volume          float64 `parquet:"name=volume, type=DOUBLE"`
	ExerciseCount   int32   `parquet:"name=exercise_count, type=INT32"`
}

// MarshalSessions encodes the sessions into an in-memory parquet file.
func MarshalSessions(sessions []analytics.SessionSummary) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	if err := writeSessions(fw, sessions); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

// WriteSessions writes the sessions into a parquet file at path.
func WriteSessions(path string, sessions []analytics.SessionSummary) error {
	fw, err := localsource.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return writeSessions(fw, sessions)
}

func writeSessions(fw source.ParquetFile, sessions []analytics.SessionSummary) error {
	pw, err := writer.NewParquetWriter(fw, new(sessionRow), writerParallelism)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, s := range sessions {
		row := sessionRow{
			RecordID:        s.RecordID,
			Date:            s.Date.Format(pkg.DateLayout),
			DurationMinutes: int32(s.DurationMinutes),
			Volume:          s.Volume,
			ExerciseCount:   int32(s.ExerciseCount),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return fmt.Errorf("write session %s: %w", s.RecordID, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("finish parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("close parquet file: %w", err)
	}
	return nil
}

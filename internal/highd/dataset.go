package highd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

const (
	recordingMetadataFileTemplateConstant = "%d_recordingMeta.csv"
	tracksMetadataFileTemplateConstant    = "%d_tracksMeta.csv"
	tracksFileTemplateConstant            = "%d_tracks.csv"
	filesPerRecordingConstant             = 4

	directoryListErrorTemplateConstant = "unable to list dataset directory %s: %w"
	fileOpenErrorTemplateConstant      = "unable to open %s: %w"
	fileParseErrorTemplateConstant     = "unable to parse %s: %w"
	missingColumnTemplateConstant      = "%s: missing required column %q"
	invalidIntegerTemplateConstant     = "%s: invalid integer %q in column %q"
	invalidNumberTemplateConstant      = "%s: invalid number %q in column %q"
	missingMetadataRowMessageConstant  = "recording metadata file has no data row"
)

// ErrMissingRecordingMetadata reports a recordingMeta file without a data row.
var ErrMissingRecordingMetadata = errors.New(missingMetadataRowMessageConstant)

// DatasetReader loads highD recordings from a dataset directory.
type DatasetReader struct {
	directoryPath string
}

// NewDatasetReader constructs a reader rooted at the provided dataset directory.
func NewDatasetReader(directoryPath string) *DatasetReader {
	return &DatasetReader{directoryPath: directoryPath}
}

// CountRecordings derives the recording count from the dataset directory entry count.
//
// Each recording contributes four files (recordingMeta, tracksMeta, tracks,
// and a background image the tools never read).
func (reader *DatasetReader) CountRecordings() (int, error) {
	directoryEntries, listError := os.ReadDir(reader.directoryPath)
	if listError != nil {
		return 0, fmt.Errorf(directoryListErrorTemplateConstant, reader.directoryPath, listError)
	}
	return len(directoryEntries) / filesPerRecordingConstant, nil
}

// RecordingMetadataPath returns the recordingMeta file path for a recording.
func (reader *DatasetReader) RecordingMetadataPath(recordingID int) string {
	return filepath.Join(reader.directoryPath, fmt.Sprintf(recordingMetadataFileTemplateConstant, recordingID))
}

// TracksMetadataPath returns the tracksMeta file path for a recording.
func (reader *DatasetReader) TracksMetadataPath(recordingID int) string {
	return filepath.Join(reader.directoryPath, fmt.Sprintf(tracksMetadataFileTemplateConstant, recordingID))
}

// TracksPath returns the tracks file path for a recording.
func (reader *DatasetReader) TracksPath(recordingID int) string {
	return filepath.Join(reader.directoryPath, fmt.Sprintf(tracksFileTemplateConstant, recordingID))
}

// ReadRecordingMetadata parses the single metadata row describing a recording.
func (reader *DatasetReader) ReadRecordingMetadata(recordingID int) (RecordingMetadata, error) {
	filePath := reader.RecordingMetadataPath(recordingID)

	file, openError := os.Open(filePath)
	if openError != nil {
		return RecordingMetadata{}, fmt.Errorf(fileOpenErrorTemplateConstant, filePath, openError)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)

	columns, headerError := csvReader.Read()
	if headerError != nil {
		if errors.Is(headerError, io.EOF) {
			return RecordingMetadata{}, fmt.Errorf("%s: %w", filePath, ErrMissingRecordingMetadata)
		}
		return RecordingMetadata{}, fmt.Errorf(fileParseErrorTemplateConstant, filePath, headerError)
	}

	record, recordError := csvReader.Read()
	if recordError != nil {
		if errors.Is(recordError, io.EOF) {
			return RecordingMetadata{}, fmt.Errorf("%s: %w", filePath, ErrMissingRecordingMetadata)
		}
		return RecordingMetadata{}, fmt.Errorf(fileParseErrorTemplateConstant, filePath, recordError)
	}

	values := make(map[string]string, len(columns))
	for columnIndex, columnName := range columns {
		values[columnName] = record[columnIndex]
	}

	frameRateValue, frameRateAvailable := values[ColumnFrameRateConstant]
	if !frameRateAvailable {
		return RecordingMetadata{}, fmt.Errorf(missingColumnTemplateConstant, filePath, ColumnFrameRateConstant)
	}

	frameRate, frameRateError := strconv.ParseFloat(frameRateValue, 64)
	if frameRateError != nil {
		return RecordingMetadata{}, fmt.Errorf(invalidNumberTemplateConstant, filePath, frameRateValue, ColumnFrameRateConstant)
	}

	return RecordingMetadata{
		RecordingID: recordingID,
		FrameRate:   frameRate,
		Columns:     columns,
		Values:      values,
	}, nil
}

// ReadTrackMetadataTable parses every tracksMeta row of a recording preserving file order.
func (reader *DatasetReader) ReadTrackMetadataTable(recordingID int) (TrackMetadataTable, error) {
	filePath := reader.TracksMetadataPath(recordingID)

	file, openError := os.Open(filePath)
	if openError != nil {
		return TrackMetadataTable{}, fmt.Errorf(fileOpenErrorTemplateConstant, filePath, openError)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)

	columns, headerError := csvReader.Read()
	if headerError != nil {
		if errors.Is(headerError, io.EOF) {
			return TrackMetadataTable{Tracks: map[int]TrackMetadata{}}, nil
		}
		return TrackMetadataTable{}, fmt.Errorf(fileParseErrorTemplateConstant, filePath, headerError)
	}

	columnPositions, columnError := buildColumnPositions(filePath, columns,
		ColumnTrackIDConstant,
		ColumnInitialFrameConstant,
		ColumnFinalFrameConstant,
		ColumnFrameCountConstant,
		ColumnLaneChangesConstant,
		ColumnMinXVelocityConstant,
		ColumnMaxXVelocityConstant,
	)
	if columnError != nil {
		return TrackMetadataTable{}, columnError
	}

	table := TrackMetadataTable{
		Columns: columns,
		Tracks:  map[int]TrackMetadata{},
	}

	for {
		record, recordError := csvReader.Read()
		if errors.Is(recordError, io.EOF) {
			break
		}
		if recordError != nil {
			return TrackMetadataTable{}, fmt.Errorf(fileParseErrorTemplateConstant, filePath, recordError)
		}

		fieldReader := newRecordFieldReader(filePath, record, columnPositions)
		trackMetadata := TrackMetadata{
			TrackID:         fieldReader.integerField(ColumnTrackIDConstant),
			InitialFrame:    fieldReader.integerField(ColumnInitialFrameConstant),
			FinalFrame:      fieldReader.integerField(ColumnFinalFrameConstant),
			FrameCount:      fieldReader.integerField(ColumnFrameCountConstant),
			LaneChangeCount: fieldReader.integerField(ColumnLaneChangesConstant),
			MinXVelocity:    fieldReader.numberField(ColumnMinXVelocityConstant),
			MaxXVelocity:    fieldReader.numberField(ColumnMaxXVelocityConstant),
			RawRecord:       record,
		}
		if fieldReader.firstError != nil {
			return TrackMetadataTable{}, fieldReader.firstError
		}

		table.TrackIDs = append(table.TrackIDs, trackMetadata.TrackID)
		table.Tracks[trackMetadata.TrackID] = trackMetadata
	}

	return table, nil
}

// ReadTrackFrameTable parses the per-frame records of a recording grouped by track identifier.
func (reader *DatasetReader) ReadTrackFrameTable(recordingID int) (TrackFrameTable, error) {
	filePath := reader.TracksPath(recordingID)

	file, openError := os.Open(filePath)
	if openError != nil {
		return TrackFrameTable{}, fmt.Errorf(fileOpenErrorTemplateConstant, filePath, openError)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)

	columns, headerError := csvReader.Read()
	if headerError != nil {
		if errors.Is(headerError, io.EOF) {
			return TrackFrameTable{Frames: map[int][]TrackFrame{}}, nil
		}
		return TrackFrameTable{}, fmt.Errorf(fileParseErrorTemplateConstant, filePath, headerError)
	}

	columnPositions, columnError := buildColumnPositions(filePath, columns,
		ColumnFrameNumberConstant,
		ColumnTrackIDConstant,
		ColumnPositionXConstant,
		ColumnPositionYConstant,
		ColumnVelocityXConstant,
		ColumnVelocityYConstant,
		ColumnAccelerationXConstant,
		ColumnAccelerationYConstant,
		ColumnLaneIDConstant,
		ColumnFollowingIDConstant,
		ColumnTimeToCollisionConstant,
	)
	if columnError != nil {
		return TrackFrameTable{}, columnError
	}

	table := TrackFrameTable{
		Columns: columns,
		Frames:  map[int][]TrackFrame{},
	}

	// Frames are grouped by contiguous id runs; a later run for the same id
	// replaces the earlier one.
	previousTrackID := 0
	firstRecordSeen := false

	for {
		record, recordError := csvReader.Read()
		if errors.Is(recordError, io.EOF) {
			break
		}
		if recordError != nil {
			return TrackFrameTable{}, fmt.Errorf(fileParseErrorTemplateConstant, filePath, recordError)
		}

		fieldReader := newRecordFieldReader(filePath, record, columnPositions)
		trackFrame := TrackFrame{
			FrameNumber:     fieldReader.integerField(ColumnFrameNumberConstant),
			TrackID:         fieldReader.integerField(ColumnTrackIDConstant),
			PositionX:       fieldReader.numberField(ColumnPositionXConstant),
			PositionY:       fieldReader.numberField(ColumnPositionYConstant),
			VelocityX:       fieldReader.numberField(ColumnVelocityXConstant),
			VelocityY:       fieldReader.numberField(ColumnVelocityYConstant),
			AccelerationX:   fieldReader.numberField(ColumnAccelerationXConstant),
			AccelerationY:   fieldReader.numberField(ColumnAccelerationYConstant),
			LaneID:          fieldReader.integerField(ColumnLaneIDConstant),
			FollowingID:     fieldReader.integerField(ColumnFollowingIDConstant),
			TimeToCollision: fieldReader.numberField(ColumnTimeToCollisionConstant),
			RawRecord:       record,
		}
		if fieldReader.firstError != nil {
			return TrackFrameTable{}, fieldReader.firstError
		}

		if !firstRecordSeen || trackFrame.TrackID != previousTrackID {
			table.Frames[trackFrame.TrackID] = nil
			previousTrackID = trackFrame.TrackID
			firstRecordSeen = true
		}
		table.Frames[trackFrame.TrackID] = append(table.Frames[trackFrame.TrackID], trackFrame)
	}

	return table, nil
}

func buildColumnPositions(filePath string, columns []string, requiredColumns ...string) (map[string]int, error) {
	columnPositions := make(map[string]int, len(columns))
	for columnIndex, columnName := range columns {
		columnPositions[columnName] = columnIndex
	}

	for _, requiredColumn := range requiredColumns {
		if _, columnAvailable := columnPositions[requiredColumn]; !columnAvailable {
			return nil, fmt.Errorf(missingColumnTemplateConstant, filePath, requiredColumn)
		}
	}

	return columnPositions, nil
}

// recordFieldReader parses typed fields out of a CSV record, retaining the first failure.
type recordFieldReader struct {
	filePath        string
	record          []string
	columnPositions map[string]int
	firstError      error
}

func newRecordFieldReader(filePath string, record []string, columnPositions map[string]int) *recordFieldReader {
	return &recordFieldReader{filePath: filePath, record: record, columnPositions: columnPositions}
}

func (fieldReader *recordFieldReader) integerField(columnName string) int {
	fieldValue := fieldReader.record[fieldReader.columnPositions[columnName]]
	parsedValue, parseError := strconv.ParseFloat(fieldValue, 64)
	if parseError != nil && fieldReader.firstError == nil {
		fieldReader.firstError = fmt.Errorf(invalidIntegerTemplateConstant, fieldReader.filePath, fieldValue, columnName)
	}
	return int(parsedValue)
}

func (fieldReader *recordFieldReader) numberField(columnName string) float64 {
	fieldValue := fieldReader.record[fieldReader.columnPositions[columnName]]
	parsedValue, parseError := strconv.ParseFloat(fieldValue, 64)
	if parseError != nil && fieldReader.firstError == nil {
		fieldReader.firstError = fmt.Errorf(invalidNumberTemplateConstant, fieldReader.filePath, fieldValue, columnName)
	}
	return parsedValue
}

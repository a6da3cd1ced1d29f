package highd

// Column names shared by the highD CSV files.
const (
	ColumnTrackIDConstant         = "id"
	ColumnFrameRateConstant       = "frameRate"
	ColumnInitialFrameConstant    = "initialFrame"
	ColumnFinalFrameConstant      = "finalFrame"
	ColumnFrameCountConstant      = "numFrames"
	ColumnLaneChangesConstant     = "numLaneChanges"
	ColumnMinXVelocityConstant    = "minXVelocity"
	ColumnMaxXVelocityConstant    = "maxXVelocity"
	ColumnFrameNumberConstant     = "frame"
	ColumnPositionXConstant       = "x"
	ColumnPositionYConstant       = "y"
	ColumnVelocityXConstant       = "xVelocity"
	ColumnVelocityYConstant       = "yVelocity"
	ColumnAccelerationXConstant   = "xAcceleration"
	ColumnAccelerationYConstant   = "yAcceleration"
	ColumnLaneIDConstant          = "laneId"
	ColumnFollowingIDConstant     = "followingId"
	ColumnTimeToCollisionConstant = "ttc"
)

// RecordingMetadata captures the single metadata row describing a recording.
type RecordingMetadata struct {
	RecordingID int
	FrameRate   float64
	Columns     []string
	Values      map[string]string
}

// TrackMetadata summarizes one vehicle track from the tracksMeta file.
type TrackMetadata struct {
	TrackID         int
	InitialFrame    int
	FinalFrame      int
	FrameCount      int
	LaneChangeCount int
	MinXVelocity    float64
	MaxXVelocity    float64
	RawRecord       []string
}

// TrackMetadataTable holds every track metadata row of a recording in file order.
type TrackMetadataTable struct {
	Columns  []string
	TrackIDs []int
	Tracks   map[int]TrackMetadata
}

// TrackFrame is a single per-frame kinematic record from the tracks file.
type TrackFrame struct {
	FrameNumber     int
	TrackID         int
	PositionX       float64
	PositionY       float64
	VelocityX       float64
	VelocityY       float64
	AccelerationX   float64
	AccelerationY   float64
	LaneID          int
	FollowingID     int
	TimeToCollision float64
	RawRecord       []string
}

// TrackFrameTable groups the per-frame records of a recording by track identifier.
type TrackFrameTable struct {
	Columns []string
	Frames  map[int][]TrackFrame
}

// Metadata returns the metadata for a track identifier when present.
func (table TrackMetadataTable) Metadata(trackID int) (TrackMetadata, bool) {
	trackMetadata, trackExists := table.Tracks[trackID]
	return trackMetadata, trackExists
}

// FramesForTrack returns the frame records for a track identifier when present.
func (table TrackFrameTable) FramesForTrack(trackID int) ([]TrackFrame, bool) {
	trackFrames, trackExists := table.Frames[trackID]
	return trackFrames, trackExists
}

package constants

import "time"

// Run rules shared by the engine and the pool manager.
const (
	RoundsPerRun      = 3
	MaxActionsPerRun  = 3
	MinWinProbability = 0.05
	MaxWinProbability = 0.95
	// NoiseDamping scales the random perturbation applied to the win
	// probability relative to the normalized power gap.
	NoiseDamping = 0.1

	MinFindsPerSearch = 1
	MaxFindsPerSearch = 2

	DefaultItemName  = "Scrap Metal"
	DefaultItemPrice = 5

	CollectibleDuplicateDiscount = 0.5
	DefaultStartingFunds         = 100
	DefaultFillDelay             = 3 * time.Minute
	DefaultTickInterval          = 60 * time.Second

	NPCIDPrefix = "npc-"
)

// Environment variable keys
const (
	EnvConfigPath    = "EXTRACTION_CONFIG"
	EnvDBPath        = "EXTRACTION_DB"
	EnvServerAddress = "EXTRACTION_ADDR"
	EnvTickInterval  = "EXTRACTION_TICK_INTERVAL"
	EnvStartingFunds = "EXTRACTION_STARTING_FUNDS"
	EnvHealthURL     = "EXTRACTION_HEALTH_URL"
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteQueues        = "/queues"
	RouteQueueJoin     = "/queues/:location/join"
	RouteQueueLeave    = "/queues/:location/leave"
	RouteLocations     = "/locations"
	RouteLeaderboard   = "/leaderboard"
	RouteFeed          = "/feed"
	RouteVersion       = "/version"
	ParamLocation      = "location"
	QueryLimit         = "limit"
	DefaultLeaderboard = 10
	MaxLeaderboard     = 100
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest          = "Invalid request"
	ErrUnknownLocation         = "Unknown location"
	ErrAlreadyQueued           = "Already queued for a run"
	ErrRunInProgress           = "A run is already in progress at this location"
	ErrPoolFull                = "Queue is full"
	ErrUnknownStrategy         = "Unknown strategy"
	ErrInsufficientFunds       = "Insufficient funds for the entry fee"
	ErrUnknownEquipment        = "Unknown equipment"
	ErrEquipmentNotOwned       = "Equipment not owned"
	ErrEquipmentBelowThreshold = "Equipment is below the location's minimum power"
	ErrNotQueued               = "Not queued at this location"
	ErrRunAlreadyStarted       = "Cannot leave after the run has started"
	ErrFailedJoin              = "Failed to join queue"
	ErrFailedLeave             = "Failed to leave queue"
	ErrFailedFetchLeaderboard  = "Failed to fetch leaderboard"
	ErrMissingParticipant      = "participant_id is required"
)

// Logging field names
const (
	LogFieldLocation    = "location"
	LogFieldParticipant = "participant_id"
	LogFieldAttacker    = "attacker"
	LogFieldDefender    = "defender"
	LogFieldRound       = "round"
	LogFieldPhase       = "phase"
	LogFieldKind        = "kind"
	LogFieldName        = "name"
	LogFieldCount       = "count"
	LogFieldAddr        = "addr"
	LogFieldPath        = "path"
	LogFieldFailures    = "failures"
	LogFieldSubscribers = "subscribers"
)

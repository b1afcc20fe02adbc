package service

import "errors"

// Join validation failures. None of them mutate state.
var (
	ErrUnknownLocation         = errors.New("unknown location")
	ErrAlreadyQueued           = errors.New("participant already queued")
	ErrRunInProgress           = errors.New("run already in progress at location")
	ErrPoolFull                = errors.New("pool is full")
	ErrUnknownStrategy         = errors.New("unknown strategy")
	ErrInsufficientFunds       = errors.New("insufficient funds for entry fee")
	ErrUnknownEquipment        = errors.New("unknown equipment")
	ErrEquipmentNotOwned       = errors.New("equipment not owned")
	ErrEquipmentBelowThreshold = errors.New("equipment below location minimum power")
)

// Leave failures.
var (
	ErrNotQueued         = errors.New("participant not queued at location")
	ErrRunAlreadyStarted = errors.New("run already started")
)

package service

const (
	DefaultMonths           = 60
	DefaultAnnualReturnRate = 0.10
	DefaultStrategyHorizon  = 120
	DefaultCashReturnRate   = 0.04

	MaxLoanAmount       = 1_000_000_000.0
	MaxInterestRate     = 1000.0 // percent per year
	MaxLoansPerRequest  = 50
	MaxSimulationMonths = 600 // 50 years
	MaxAllocationKeys   = 20
	MaxAnnualReturnRate = 1.0
	MinAnnualReturnRate = -1.0
	MaxEMITermMonths    = 600
	MinEMITermMonths    = 1

	// Límites de redondeo
	SurplusTolerance    = 0.01 // sobrante menor se trata como residuo
	ClosedLoanThreshold = 1.0  // saldo menor cierra el préstamo en las estrategias
)

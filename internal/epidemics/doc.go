// Package epidemics is the epidemic simulation framework: the rate
// constants, the core always-on processes (births, compartment drift,
// disease spread, infrastructure boosts, travel), and the player
// intervention processes (masks, aid kits, sanitation, quarantine,
// vaccination, hospital building, zone tuning).
//
// Process ranks:
//
//	rank 0  core drift and resource flows
//	rank 1  interventions and zone effect changes
//	rank 2  travel spread between connected airports and ports
//	rank 4  compartment flows (disease spread runs last)
//
// Entities sync at every rank boundary, so all rank-0 processes read the
// same world, interventions see the drifted rates, and the disease spread
// sees everything.
//
// All processes iterate countries and loci in sorted name order; runs are
// deterministic step for step.
package epidemics

// Package netspeed estimates download throughput with repeated fetches of a
// reference resource and classifies the result into display bands.
//
// The estimate is deliberately crude: each trial downloads the whole
// resource, the per-trial rate is bits over wall time, and the sample is the
// mean of the trials. Callers schedule probes themselves; see the readiness
// package for the interval and countdown handling.
package netspeed

// Package upstream turns a requested version into a downloadable server artifact.
//
// Three backends share one contract. Vanilla follows Mojang's version manifest
// and per-version metadata (SHA-1). Paper lists builds from the PaperMC fill API
// and takes the first one (SHA-256). Fabric assembles a templated loader URL and
// offers no size or digest. Every request goes through Client, which carries the
// fixed slapaman User-Agent.
package upstream

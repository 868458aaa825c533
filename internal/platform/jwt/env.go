package jwtmw

// EnvKeyJWTSecret is the environment variable holding the HMAC signing secret.
// Both the generator wiring and the middleware read the same key so the
// server cannot issue tokens it would later reject.
const EnvKeyJWTSecret = "JWT_SECRET"

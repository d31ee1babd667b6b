/*
Package ports defines the driven-side interfaces of the engine: session
persistence, remote request forwarding, and SMS alerting. Adapters under
internal/adapters implement them; the kernel depends only on these contracts.
*/
package ports

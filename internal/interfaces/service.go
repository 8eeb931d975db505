package interfaces

// Service is the lifecycle every transport exposing the escrow engine
// implements. Stop must release the listeners opened by Start.
type Service interface {
	Start() error
	Stop()
}

package pools

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// Metrics records metrics for pool dictionary reloads.
type Metrics interface {
	ObserveReload(err error, pools int)
}

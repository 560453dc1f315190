package services

// ServiceContainer aggregates the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Rate       RateSvcFacade
	Conversion ConversionSvcFacade
	Ingestion  IngestionSvc
}

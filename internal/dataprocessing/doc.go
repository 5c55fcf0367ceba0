// Package dataprocessing turns container files into report rows.
//
// # Architecture
//
// The package is organized into four steps:
//
// 1. ExtractSeries: slices the position series of every device into
// per-sensor time series
// 2. Reduce: computes the mean position and max distance of one series
// 3. Aggregator: runs both steps over one container file
// 4. Pipeline: two passes over the batch. DiscoverSchema unions the sensor
// identifiers of every file into the sorted schema; BuildRows projects each
// file onto that schema, filling absent sensors with NaN.
//
// The schema is finished before the second pass starts and is passed to it
// as a value. With more than one worker each pass aggregates files
// concurrently, but results are still collected in input order.
//
// # Usage
//
//	agg := dataprocessing.NewAggregator(hdf5.Open, "Position", logger, tracer)
//	pipeline := dataprocessing.NewPipeline(agg, logger, dataprocessing.WithWorkers(4))
//	report, stats, err := pipeline.Run(ctx, paths)
package dataprocessing

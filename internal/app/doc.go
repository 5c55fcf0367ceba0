// Package app wires configuration, logging, telemetry and the aggregation
// pipeline into one run.
//
// # Run Flow
//
//	1. Validate the input folder and create the output folder
//	2. List the container files of the input folder
//	3. Pass 1: discover the sensor schema over every file
//	4. Pass 2: build one report row per file
//	5. Write average_positions.csv and max_distances.csv (and the optional
//	   workbook)
//
// # Usage
//
//	application := app.New(cfg, logger, telemetry, hdf5.Open)
//	result, err := application.Run(ctx, paths)
package app

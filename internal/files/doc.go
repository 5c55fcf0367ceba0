// Package files provides the file system collaborators of a run.
//
// Discovery lists the container files of the input folder by extension, in
// directory order. ValidateFolder checks the input folder exists and creates
// the output folder when asked to.
//
// Example usage:
//
//	if err := files.ValidateFolder(inputDir, false); err != nil {
//	    return err
//	}
//	containers, err := files.NewDiscovery(".hdf5").ListContainerFiles(inputDir)
package files

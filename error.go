package geovec

import "errors"

var (
	ErrGdalDriverCreate = errors.New("gdal driver create err")
	ErrGdalDriverOpen   = errors.New("gdal driver open err")
	ErrVoidSrid         = errors.New("dataset with void srid")
	ErrMissingSRID      = errors.New("dataset has no srid assigned")
	ErrInvalidWKT       = errors.New("invalid WKT")
	ErrInvalidTif       = errors.New("invalid tif")
	ErrEmptyTif         = errors.New("empty tif")
	ErrTifReadFailed    = errors.New("tif read failed")
	ErrWrongRasterBand  = errors.New("wrong raster band index")
	ErrNotSingleBand    = errors.New("stack layer is not single band")
	ErrGridMismatch     = errors.New("raster grids are not aligned")
	ErrEmptyStack       = errors.New("no layers to stack")
	ErrUnknownAttribute = errors.New("unknown stack attribute")
	ErrDupAttribute     = errors.New("duplicated stack attribute")
	ErrEmptyPointSet    = errors.New("point set is empty")
	ErrPointCountDrift  = errors.New("extraction changed point count or order")
	ErrUnsupportedFile  = errors.New("unsupported vector file type")
	ErrNotPointLayer    = errors.New("layer has no point geometry")
)

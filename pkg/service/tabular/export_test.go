package tabular

var ParseObjectURL = parseObjectURL

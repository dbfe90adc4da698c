package colab

var MapStatus = mapStatus

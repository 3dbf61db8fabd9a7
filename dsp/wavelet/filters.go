package wavelet

// Decomposition low-pass filters. The remaining three filters of each
// wavelet are derived from these in newWavelet.
var (
	db1DecLo = []float64{
		0.7071067811865476, 0.7071067811865476,
	}

	db2DecLo = []float64{
		-0.12940952255092145, 0.22414386804185735, 0.836516303737469, 0.48296291314469025,
	}

	db4DecLo = []float64{
		-0.010597401784997278, 0.032883011666982945, 0.030841381835986965, -0.18703481171888114,
		-0.02798376941698385, 0.6308807679295904, 0.7148465705525415, 0.23037781330885523,
	}

	sym4DecLo = []float64{
		-0.07576571478927333, -0.02963552764599851, 0.49761866763201545, 0.8037387518059161,
		0.29785779560527736, -0.09921954357684722, -0.012603967262037833, 0.0322231006040427,
	}

	coif1DecLo = []float64{
		-0.01565572813546454, -0.0727326195128539, 0.38486484686420286,
		0.8525720202122554, 0.3378976624578092, -0.0727326195128539,
	}

	coif2DecLo = []float64{
		-0.0007205494453645122, -0.0018232088707029932, 0.0056114348193944995, 0.023680171946334084,
		-0.0594344186464569, -0.0764885990783064, 0.41700518442169254, 0.8127236354455423,
		0.3861100668211622, -0.06737255472196302, -0.04146493678175915, 0.016387336463522112,
	}

	coif3DecLo = []float64{
		-3.459977283621256e-05, -7.098330313814125e-05, 0.0004662169601128863, 0.0011175187708906016,
		-0.0025745176887502236, -0.00900797613666158, 0.015880544863615904, 0.03455502757306163,
		-0.08230192710688598, -0.07179982161931202, 0.42848347637761874, 0.7937772226256206,
		0.4051769024096169, -0.06112339000267287, -0.0657719112818555, 0.023452696141836267,
		0.007782596427325418, -0.003793512864491014,
	}
)
